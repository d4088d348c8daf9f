// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"errors"
	"sync"
	"testing"
)

func TestSetChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel int
		value   int
		want    byte
		wantErr bool
	}{
		{name: "first channel", channel: 1, value: 255, want: 255},
		{name: "last channel", channel: 512, value: 1, want: 1},
		{name: "mid channel", channel: 256, value: 128, want: 128},
		{name: "zero value", channel: 10, value: 0, want: 0},
		{name: "negative value clamps to zero", channel: 10, value: -42, want: 0},
		{name: "overflow value clamps to full", channel: 10, value: 300, want: 255},
		{name: "channel zero rejected", channel: 0, value: 100, wantErr: true},
		{name: "channel above range rejected", channel: 513, value: 100, wantErr: true},
		{name: "negative channel rejected", channel: -1, value: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUniverse()
			err := u.SetChannel(tt.channel, tt.value)

			if tt.wantErr {
				if err == nil {
					t.Fatal("SetChannel() error = nil, want ChannelRangeError")
				}
				var re *ChannelRangeError
				if !errors.As(err, &re) {
					t.Fatalf("SetChannel() error = %v, want *ChannelRangeError", err)
				}
				if re.Channel != tt.channel {
					t.Errorf("error channel = %d, want %d", re.Channel, tt.channel)
				}
				return
			}

			if err != nil {
				t.Fatalf("SetChannel() error = %v", err)
			}
			got, err := u.Channel(tt.channel)
			if err != nil {
				t.Fatalf("Channel() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Channel(%d) = %d, want %d", tt.channel, got, tt.want)
			}
		})
	}
}

func TestSetChannelBadAddressLeavesUniverseUntouched(t *testing.T) {
	u := NewUniverse()
	if err := u.SetChannel(513, 200); err == nil {
		t.Fatal("SetChannel(513) error = nil, want ChannelRangeError")
	}

	snap := u.Snapshot()
	if n := snap.Active(); n != 0 {
		t.Errorf("universe has %d active channels after rejected write, want 0", n)
	}
}

func TestSetChannelsAppliesValidEntriesDespiteFailures(t *testing.T) {
	u := NewUniverse()
	err := u.SetChannels(map[int]int{
		1:   255,
		100: 128,
		0:   50,  // invalid address
		600: 50,  // invalid address
		512: 300, // valid address, clamped value
	})

	if err == nil {
		t.Fatal("SetChannels() error = nil, want joined ChannelRangeError")
	}
	var re *ChannelRangeError
	if !errors.As(err, &re) {
		t.Fatalf("SetChannels() error = %v, want *ChannelRangeError inside", err)
	}

	wantValues := map[int]byte{1: 255, 100: 128, 512: 255}
	for ch, want := range wantValues {
		got, err := u.Channel(ch)
		if err != nil {
			t.Fatalf("Channel(%d) error = %v", ch, err)
		}
		if got != want {
			t.Errorf("Channel(%d) = %d, want %d", ch, got, want)
		}
	}
}

func TestSetChannelsAllValid(t *testing.T) {
	u := NewUniverse()
	if err := u.SetChannels(map[int]int{1: 10, 2: 20, 3: 30}); err != nil {
		t.Fatalf("SetChannels() error = %v", err)
	}
	for ch, want := range map[int]byte{1: 10, 2: 20, 3: 30} {
		got, _ := u.Channel(ch)
		if got != want {
			t.Errorf("Channel(%d) = %d, want %d", ch, got, want)
		}
	}
}

func TestBlackout(t *testing.T) {
	u := NewUniverse()
	for ch := 1; ch <= ChannelCount; ch++ {
		if err := u.SetChannel(ch, 255); err != nil {
			t.Fatalf("SetChannel(%d) error = %v", ch, err)
		}
	}

	u.Blackout()

	snap := u.Snapshot()
	if n := snap.Active(); n != 0 {
		t.Errorf("blackout left %d active channels, want 0", n)
	}
}

func TestSnapshotIsPointInTime(t *testing.T) {
	u := NewUniverse()
	if err := u.SetChannel(5, 100); err != nil {
		t.Fatalf("SetChannel() error = %v", err)
	}

	snap := u.Snapshot()
	if snap.StartCode() != StartCode {
		t.Errorf("StartCode() = 0x%02X, want 0x%02X", snap.StartCode(), StartCode)
	}
	if got := snap.Channel(5); got != 100 {
		t.Errorf("snapshot channel 5 = %d, want 100", got)
	}

	// Later writes must not show through an existing snapshot.
	if err := u.SetChannel(5, 200); err != nil {
		t.Fatalf("SetChannel() error = %v", err)
	}
	if got := snap.Channel(5); got != 100 {
		t.Errorf("snapshot channel 5 changed to %d after later write, want 100", got)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	u := NewUniverse()
	if err := u.SetChannels(map[int]int{1: 11, 42: 77, 512: 255}); err != nil {
		t.Fatalf("SetChannels() error = %v", err)
	}
	snap := u.Snapshot()

	u.Blackout()
	u.Restore(snap)

	got := u.Snapshot()
	if got != snap {
		t.Error("restored universe differs from the recorded frame")
	}
}

func TestUniverseConcurrentAccess(t *testing.T) {
	u := NewUniverse()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ch := base*64 + j%64 + 1
				if err := u.SetChannel(ch, j%256); err != nil {
					t.Errorf("SetChannel(%d) error = %v", ch, err)
					return
				}
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				f := u.Snapshot()
				if f.StartCode() != StartCode {
					t.Errorf("snapshot start code = 0x%02X", f.StartCode())
					return
				}
			}
		}()
	}
	wg.Wait()
}
