// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package fixture

// DualLaser returns the built-in profile for the 32-channel dual-head
// laser projector this project was written around. Channel pairs drive
// the same function on head one and head two (suffix _2); a handful of
// channels are global. Band boundaries follow the vendor's channel
// chart.
func DualLaser() *Profile {
	return &Profile{
		Name:     "dual-laser",
		Channels: 32,
		Controls: []Control{
			{Name: "lamp_mode", Channel: 1, Kind: KindSelect, Bands: []Band{
				{Name: "off", Min: 0, Max: 0},
				{Name: "manual", Min: 1, Max: 99},
				{Name: "dynamic_sound", Min: 100, Max: 199},
				{Name: "tune_program", Min: 200, Max: 219},
				{Name: "sound_program", Min: 220, Max: 249},
				{Name: "off_end", Min: 250, Max: 255},
			}},
			{Name: "pattern_size", Channel: 2, Kind: KindSelect, Bands: patternSizeBands()},
			{Name: "gallery", Channel: 3, Kind: KindSelect, Bands: []Band{
				{Name: "beam", Min: 0, Max: 0},
				{Name: "animation", Min: 240, Max: 240},
			}},
			{Name: "pattern", Channel: 4, Kind: KindLevel, Max: 255},
			{Name: "zooming", Channel: 5, Kind: KindSelect, Bands: zoomingBands()},
			{Name: "rotation", Channel: 6, Kind: KindSelect, Bands: rotationBands()},
			{Name: "horizontal_move", Channel: 7, Kind: KindSelect, Bands: horizontalMoveBands()},
			{Name: "vertical_move", Channel: 8, Kind: KindSelect, Bands: verticalMoveBands()},
			{Name: "horizontal_zoom", Channel: 9, Kind: KindSelect, Bands: []Band{
				{Name: "static", Min: 0, Max: 127},
				{Name: "push_up_distortion", Min: 128, Max: 159},
				{Name: "push_down_distortion", Min: 160, Max: 191},
				{Name: "zooming", Min: 192, Max: 223},
				{Name: "flip_zooming", Min: 224, Max: 255},
			}},
			{Name: "vertical_zoom", Channel: 10, Kind: KindSelect, Bands: []Band{
				{Name: "static", Min: 0, Max: 127},
				{Name: "right_push_distortion", Min: 128, Max: 159},
				{Name: "left_push_distortion", Min: 160, Max: 191},
				{Name: "zoom", Min: 192, Max: 223},
				{Name: "dynamic_flip_zooming", Min: 224, Max: 255},
			}},
			{Name: "forced_color", Channel: 11, Kind: KindSelect, Bands: forcedColorBands()},
			{Name: "strobe", Channel: 12, Kind: KindSelect, Bands: []Band{
				{Name: "off", Min: 0, Max: 15},
				{Name: "strobe", Min: 16, Max: 131},
				{Name: "random_flash", Min: 132, Max: 147},
				{Name: "sound_strobe", Min: 148, Max: 199},
				{Name: "sound_random_flash", Min: 200, Max: 215},
				{Name: "on", Min: 216, Max: 255},
			}},
			{Name: "node_highlight", Channel: 13, Kind: KindSelect, Bands: nodeHighlightBands()},
			{Name: "node_expansion", Channel: 14, Kind: KindLevel, Max: 255},
			{Name: "gradual_draw", Channel: 15, Kind: KindSelect, Bands: gradualDrawBands()},
			{Name: "distortion", Channel: 16, Kind: KindLevel, Max: 255},
			{Name: "distortion_2", Channel: 17, Kind: KindLevel, Max: 255},
			{Name: "second_lamp", Channel: 18, Kind: KindLevel, Max: 255},
			{Name: "pattern_size_2", Channel: 19, Kind: KindSelect, Bands: patternSizeBands()},
			// Channel 20 is documented as "pattern library selection" but the
			// vendor chart marks it non-functional; kept addressable anyway.
			{Name: "pattern_library", Channel: 20, Kind: KindLevel, Max: 255},
			{Name: "pattern_2", Channel: 21, Kind: KindLevel, Max: 255},
			{Name: "zooming_2", Channel: 22, Kind: KindSelect, Bands: zoomingBands()},
			{Name: "rotation_2", Channel: 23, Kind: KindSelect, Bands: rotationBands()},
			{Name: "horizontal_move_2", Channel: 24, Kind: KindSelect, Bands: horizontalMoveBands()},
			{Name: "vertical_move_2", Channel: 25, Kind: KindSelect, Bands: verticalMoveBands()},
			{Name: "horizontal_flip", Channel: 26, Kind: KindSelect, Bands: []Band{
				{Name: "static", Min: 0, Max: 127},
				{Name: "push_up_distortion", Min: 128, Max: 159},
				{Name: "push_down_distortion", Min: 160, Max: 191},
				{Name: "flip", Min: 192, Max: 223},
			}},
			{Name: "vertical_flip", Channel: 27, Kind: KindSelect, Bands: []Band{
				{Name: "static", Min: 0, Max: 127},
				{Name: "right_push_distortion", Min: 128, Max: 159},
				{Name: "left_push_distortion", Min: 160, Max: 191},
				{Name: "flip", Min: 192, Max: 255},
			}},
			{Name: "forced_color_2", Channel: 28, Kind: KindSelect, Bands: forcedColorBands()},
			{Name: "color", Channel: 29, Kind: KindSelect, Bands: []Band{
				{Name: "primary", Min: 0, Max: 7},
				{Name: "white", Min: 8, Max: 15},
				{Name: "red", Min: 16, Max: 23},
				{Name: "yellow", Min: 24, Max: 31},
				{Name: "green", Min: 32, Max: 39},
				{Name: "indigo", Min: 40, Max: 47},
				{Name: "blue", Min: 48, Max: 55},
				{Name: "purple", Min: 56, Max: 63},
				{Name: "rgb_cycle", Min: 64, Max: 95},
				{Name: "yip_cycle", Min: 96, Max: 127},
				{Name: "full_color_cycle", Min: 128, Max: 159},
				{Name: "colorful_change", Min: 160, Max: 191},
				{Name: "forward_movement", Min: 192, Max: 223},
				{Name: "reverse_movement", Min: 224, Max: 255},
			}},
			{Name: "node_highlight_2", Channel: 30, Kind: KindSelect, Bands: nodeHighlightBands()},
			{Name: "node_expansion_2", Channel: 31, Kind: KindLevel, Max: 255},
			{Name: "gradual_draw_2", Channel: 32, Kind: KindSelect, Bands: gradualDrawBands()},
		},
	}
}

// Shared band tables for the per-head channel pairs.

func patternSizeBands() []Band {
	return []Band{
		{Name: "parts_blank", Min: 0, Max: 49},
		{Name: "returns", Min: 50, Max: 99},
		{Name: "folds", Min: 100, Max: 149},
		{Name: "crossing", Min: 150, Max: 199},
		{Name: "blanking", Min: 200, Max: 255},
	}
}

func zoomingBands() []Band {
	return []Band{
		{Name: "static", Min: 0, Max: 127},
		{Name: "zoom_in", Min: 128, Max: 159},
		{Name: "zoom_out", Min: 160, Max: 191},
		{Name: "flip_zooming", Min: 192, Max: 255},
	}
}

func rotationBands() []Band {
	return []Band{
		{Name: "static", Min: 0, Max: 127},
		{Name: "dynamic_inversion", Min: 128, Max: 255},
	}
}

func horizontalMoveBands() []Band {
	return []Band{
		{Name: "static", Min: 0, Max: 127},
		{Name: "push_up", Min: 128, Max: 159},
		{Name: "push_down", Min: 160, Max: 191},
		{Name: "left_shift", Min: 192, Max: 223},
		{Name: "right_shift", Min: 224, Max: 255},
	}
}

func verticalMoveBands() []Band {
	return []Band{
		{Name: "static", Min: 0, Max: 127},
		{Name: "right_push", Min: 128, Max: 159},
		{Name: "left_push", Min: 160, Max: 191},
		{Name: "move_up", Min: 192, Max: 223},
		{Name: "move_down", Min: 224, Max: 255},
	}
}

func forcedColorBands() []Band {
	return []Band{
		{Name: "primary", Min: 0, Max: 0},
		{Name: "change_every_n", Min: 1, Max: 255},
	}
}

func nodeHighlightBands() []Band {
	return []Band{
		{Name: "brighter", Min: 0, Max: 63},
		{Name: "broken_lines", Min: 64, Max: 127},
		// The vendor chart lists 128-159 here with 224-255 reserved;
		// hardware accepts the whole 128-223 span.
		{Name: "scanning_line", Min: 128, Max: 223},
	}
}

func gradualDrawBands() []Band {
	return []Band{
		{Name: "forward_manual", Min: 0, Max: 63},
		{Name: "reverse_manual", Min: 64, Max: 127},
		{Name: "dynamic_a", Min: 128, Max: 159},
		{Name: "dynamic_b", Min: 160, Max: 191},
		{Name: "dynamic_c", Min: 192, Max: 223},
		{Name: "dynamic_d", Min: 224, Max: 255},
	}
}
