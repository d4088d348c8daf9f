// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package fixture_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxcraft/beamcast/pkg/fixture"
)

func TestParseSetting(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    fixture.Setting
		wantErr bool
	}{
		{
			name: "plain value",
			arg:  "pattern=128",
			want: fixture.Setting{Control: "pattern", Value: 128, HasValue: true},
		},
		{
			name: "band only",
			arg:  "lamp_mode=manual",
			want: fixture.Setting{Control: "lamp_mode", Band: "manual"},
		},
		{
			name: "band with value",
			arg:  "lamp_mode=manual:50",
			want: fixture.Setting{Control: "lamp_mode", Band: "manual", Value: 50, HasValue: true},
		},
		{
			name: "negative value still parses",
			arg:  "pattern=-1",
			want: fixture.Setting{Control: "pattern", Value: -1, HasValue: true},
		},
		{name: "missing equals", arg: "pattern", wantErr: true},
		{name: "empty name", arg: "=128", wantErr: true},
		{name: "empty right side", arg: "pattern=", wantErr: true},
		{name: "colon without value", arg: "lamp_mode=manual:", wantErr: true},
		{name: "colon without band", arg: "lamp_mode=:50", wantErr: true},
		{name: "non-numeric band value", arg: "lamp_mode=manual:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixture.ParseSetting(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSelect(t *testing.T) {
	p := fixture.DualLaser()

	tests := []struct {
		name        string
		setting     string
		wantChannel int
		wantValue   byte
		wantErr     string
	}{
		{name: "band alone yields its minimum", setting: "lamp_mode=manual", wantChannel: 1, wantValue: 1},
		{name: "band with value inside range", setting: "lamp_mode=manual:50", wantChannel: 1, wantValue: 50},
		{name: "single-value band", setting: "gallery=animation", wantChannel: 3, wantValue: 240},
		{name: "case-insensitive lookup", setting: "LAMP_MODE=Manual", wantChannel: 1, wantValue: 1},
		{name: "value outside band", setting: "lamp_mode=manual:100", wantErr: "outside band"},
		{name: "unknown band", setting: "lamp_mode=disco", wantErr: "no band"},
		{name: "bare value on a select", setting: "lamp_mode=50", wantErr: "band required"},
		{name: "unknown control", setting: "afterburner=1", wantErr: "no control"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := fixture.ParseSetting(tt.setting)
			require.NoError(t, err)

			ch, v, err := p.Resolve(s)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChannel, ch)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestResolveLevel(t *testing.T) {
	p := fixture.DualLaser()

	s, err := fixture.ParseSetting("pattern=200")
	require.NoError(t, err)
	ch, v, err := p.Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, 4, ch)
	assert.Equal(t, byte(200), v)

	s, err = fixture.ParseSetting("pattern=300")
	require.NoError(t, err)
	_, _, err = p.Resolve(s)
	assert.ErrorContains(t, err, "outside")

	s, err = fixture.ParseSetting("pattern=wide")
	require.NoError(t, err)
	_, _, err = p.Resolve(s)
	assert.ErrorContains(t, err, "plain value")
}

func TestResolveSwitch(t *testing.T) {
	p := &fixture.Profile{
		Name:     "switch-test",
		Channels: 2,
		Controls: []fixture.Control{
			{Name: "shutter", Channel: 1, Kind: fixture.KindSwitch, On: 255, Off: 0},
		},
	}
	require.NoError(t, p.Validate())

	ch, v, err := p.Resolve(fixture.Setting{Control: "shutter", Band: "on"})
	require.NoError(t, err)
	assert.Equal(t, 1, ch)
	assert.Equal(t, byte(255), v)

	_, v, err = p.Resolve(fixture.Setting{Control: "shutter", Band: "OFF"})
	require.NoError(t, err)
	assert.Equal(t, byte(0), v)

	_, _, err = p.Resolve(fixture.Setting{Control: "shutter", Value: 128, HasValue: true})
	assert.ErrorContains(t, err, "want on or off")
}

type captureSetter struct {
	calls []map[int]int
}

func (c *captureSetter) SetChannels(values map[int]int) error {
	c.calls = append(c.calls, values)
	return nil
}

func TestApplyAllOrNothing(t *testing.T) {
	p := fixture.DualLaser()
	dst := &captureSetter{}

	good, err := fixture.ParseSettings([]string{"lamp_mode=manual:50", "color=red", "pattern=7"})
	require.NoError(t, err)

	require.NoError(t, p.Apply(dst, good...))
	require.Len(t, dst.calls, 1)
	assert.Equal(t, map[int]int{1: 50, 29: 16, 4: 7}, dst.calls[0])

	// One bad setting poisons the whole batch.
	mixed, err := fixture.ParseSettings([]string{"lamp_mode=manual:50", "color=plaid"})
	require.NoError(t, err)

	err = p.Apply(dst, mixed...)
	assert.Error(t, err)
	assert.Len(t, dst.calls, 1, "failed batch must not reach the fixture")
}

func TestProfileValidate(t *testing.T) {
	valid := func() *fixture.Profile {
		return &fixture.Profile{
			Name:     "p",
			Channels: 4,
			Controls: []fixture.Control{
				{Name: "a", Channel: 1, Kind: fixture.KindLevel},
				{Name: "b", Channel: 2, Kind: fixture.KindSelect, Bands: []fixture.Band{{Name: "x", Min: 0, Max: 10}}},
			},
		}
	}

	t.Run("valid profile normalizes level max", func(t *testing.T) {
		p := valid()
		require.NoError(t, p.Validate())
		assert.Equal(t, 255, p.Controls[0].Max)
	})

	tests := []struct {
		name    string
		mutate  func(*fixture.Profile)
		wantErr string
	}{
		{name: "no name", mutate: func(p *fixture.Profile) { p.Name = "" }, wantErr: "no name"},
		{name: "zero span", mutate: func(p *fixture.Profile) { p.Channels = 0 }, wantErr: "channel span"},
		{name: "span beyond universe", mutate: func(p *fixture.Profile) { p.Channels = 513 }, wantErr: "channel span"},
		{name: "no controls", mutate: func(p *fixture.Profile) { p.Controls = nil }, wantErr: "no controls"},
		{name: "duplicate control name", mutate: func(p *fixture.Profile) { p.Controls[1].Name = "A" }, wantErr: "duplicate control"},
		{name: "duplicate channel", mutate: func(p *fixture.Profile) { p.Controls[1].Channel = 1 }, wantErr: "share channel"},
		{name: "channel outside span", mutate: func(p *fixture.Profile) { p.Controls[0].Channel = 5 }, wantErr: "outside"},
		{name: "select without bands", mutate: func(p *fixture.Profile) { p.Controls[1].Bands = nil }, wantErr: "no bands"},
		{name: "band range inverted", mutate: func(p *fixture.Profile) { p.Controls[1].Bands[0].Min = 20 }, wantErr: "invalid"},
		{name: "band above byte range", mutate: func(p *fixture.Profile) { p.Controls[1].Bands[0].Max = 300 }, wantErr: "invalid"},
		{
			name: "duplicate band",
			mutate: func(p *fixture.Profile) {
				p.Controls[1].Bands = append(p.Controls[1].Bands, fixture.Band{Name: "X", Min: 11, Max: 12})
			},
			wantErr: "duplicate band",
		},
		{
			name:    "level range inverted",
			mutate:  func(p *fixture.Profile) { p.Controls[0].Min = 200; p.Controls[0].Max = 100 },
			wantErr: "level range",
		},
		{
			name: "switch on equals off",
			mutate: func(p *fixture.Profile) {
				p.Controls[0] = fixture.Control{Name: "a", Channel: 1, Kind: fixture.KindSwitch, On: 5, Off: 5}
			},
			wantErr: "on and off",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "mini.json")
		doc := `{
  "name": "mini",
  "channels": 3,
  "controls": [
    {"name": "dimmer", "channel": 1, "kind": "level"},
    {"name": "shutter", "channel": 2, "kind": "switch", "on": 255, "off": 0},
    {"name": "mode", "channel": 3, "kind": "select",
     "bands": [{"name": "slow", "min": 0, "max": 127}, {"name": "fast", "min": 128, "max": 255}]}
  ]
}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		p, err := fixture.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "mini", p.Name)
		assert.Len(t, p.Controls, 3)
		assert.Equal(t, fixture.KindSwitch, p.Controls[1].Kind)
		assert.Equal(t, 255, p.Controls[0].Max, "level max normalized on load")

		ch, v, err := p.Resolve(fixture.Setting{Control: "mode", Band: "fast"})
		require.NoError(t, err)
		assert.Equal(t, 3, ch)
		assert.Equal(t, byte(128), v)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad-kind.json")
		doc := `{"name": "x", "channels": 1, "controls": [{"name": "a", "channel": 1, "kind": "dial"}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := fixture.Load(path)
		assert.ErrorContains(t, err, "unknown control kind")
	})

	t.Run("invalid profile rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad-profile.json")
		doc := `{"name": "x", "channels": 1, "controls": []}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := fixture.Load(path)
		assert.ErrorContains(t, err, "no controls")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fixture.Load(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}
