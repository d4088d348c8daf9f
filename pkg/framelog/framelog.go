// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package framelog records transmitted DMX frames to a CBOR stream and
// reads them back for replay. Each record carries the full 513-byte wire
// image plus a session ID, so one file can hold several recording runs
// and a replay can still tell them apart.
package framelog

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

// Record is one transmitted frame. CBOR encoding uses integer keys to
// keep files small at full frame rate (30 Hz is ~1.6 MB/min raw).
type Record struct {
	// At is the transmission timestamp (nanosecond precision).
	At time.Time `cbor:"1,keyasint"`

	// Session identifies the recording run (UUID).
	Session string `cbor:"2,keyasint"`

	// Endpoint names the transport the frame went out on.
	Endpoint string `cbor:"3,keyasint,omitempty"`

	// Frame is the wire image including the start code byte.
	Frame []byte `cbor:"4,keyasint"`
}

// DMXFrame returns the record's frame as an engine frame. Short images
// leave the tail zero; oversized ones are truncated.
func (r Record) DMXFrame() dmx.Frame {
	var f dmx.Frame
	copy(f[:], r.Frame)
	return f
}

// encMode is the CBOR encoder mode for frame records: deterministic
// encoding, RFC3339Nano timestamps.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for frame records.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("frame log CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("frame log CBOR decoder mode: %v", err))
	}
}

// Encode marshals one record to CBOR bytes.
func Encode(rec Record) ([]byte, error) {
	return encMode.Marshal(rec)
}

// Decode unmarshals CBOR bytes into a record.
func Decode(data []byte) (Record, error) {
	var rec Record
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
