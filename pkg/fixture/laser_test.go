// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package fixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxcraft/beamcast/pkg/fixture"
)

func TestDualLaserIsValid(t *testing.T) {
	p := fixture.DualLaser()
	require.NoError(t, p.Validate())
	assert.Equal(t, 32, p.Channels)
}

func TestDualLaserCoversEveryChannel(t *testing.T) {
	p := fixture.DualLaser()
	require.Len(t, p.Controls, 32)

	covered := make(map[int]bool, 32)
	for _, c := range p.Controls {
		covered[c.Channel] = true
	}
	for ch := 1; ch <= 32; ch++ {
		assert.Truef(t, covered[ch], "channel %d has no control", ch)
	}
}

func TestDualLaserHeadPairsMatch(t *testing.T) {
	p := fixture.DualLaser()

	pairs := map[string]string{
		"pattern_size":    "pattern_size_2",
		"zooming":         "zooming_2",
		"rotation":        "rotation_2",
		"horizontal_move": "horizontal_move_2",
		"vertical_move":   "vertical_move_2",
		"forced_color":    "forced_color_2",
		"node_highlight":  "node_highlight_2",
		"gradual_draw":    "gradual_draw_2",
	}

	for one, two := range pairs {
		a := p.Control(one)
		b := p.Control(two)
		require.NotNilf(t, a, "control %s missing", one)
		require.NotNilf(t, b, "control %s missing", two)
		assert.Equalf(t, a.Bands, b.Bands, "%s and %s diverge", one, two)
		assert.NotEqual(t, a.Channel, b.Channel)
	}
}

func TestDualLaserKnownValues(t *testing.T) {
	p := fixture.DualLaser()

	tests := []struct {
		setting     string
		wantChannel int
		wantValue   byte
	}{
		{setting: "lamp_mode=off", wantChannel: 1, wantValue: 0},
		{setting: "lamp_mode=sound_program", wantChannel: 1, wantValue: 220},
		{setting: "gallery=beam", wantChannel: 3, wantValue: 0},
		{setting: "strobe=on", wantChannel: 12, wantValue: 216},
		{setting: "strobe=strobe:80", wantChannel: 12, wantValue: 80},
		{setting: "color=red", wantChannel: 29, wantValue: 16},
		{setting: "color=rgb_cycle", wantChannel: 29, wantValue: 64},
		{setting: "zooming_2=zoom_in", wantChannel: 22, wantValue: 128},
		{setting: "gradual_draw_2=dynamic_d", wantChannel: 32, wantValue: 224},
		{setting: "distortion_2=99", wantChannel: 17, wantValue: 99},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			s, err := fixture.ParseSetting(tt.setting)
			require.NoError(t, err)

			ch, v, err := p.Resolve(s)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChannel, ch)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}
