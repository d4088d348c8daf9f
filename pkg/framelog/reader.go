// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package framelog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Reader iterates the records of a frame log file in write order.
type Reader struct {
	file *os.File
	dec  *cbor.Decoder
}

// NewReader opens a frame log for reading.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	return &Reader{file: f, dec: decMode.NewDecoder(f)}, nil
}

// Next returns the next record. io.EOF signals a clean end of file.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("decode frame record: %w", err)
	}
	return rec, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
