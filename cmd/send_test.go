// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"maps"
	"testing"
)

func TestParseChannelArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[int]int
	}{
		{
			name: "single pair",
			args: []string{"1=255"},
			want: map[int]int{1: 255},
		},
		{
			name: "multiple pairs",
			args: []string{"1=50", "3=255", "29=16"},
			want: map[int]int{1: 50, 3: 255, 29: 16},
		},
		{
			name: "repeated channel keeps last",
			args: []string{"7=10", "7=20"},
			want: map[int]int{7: 20},
		},
		{
			name: "zero value",
			args: []string{"12=0"},
			want: map[int]int{12: 0},
		},
		{
			name: "out of range parses fine",
			args: []string{"999=300"},
			want: map[int]int{999: 300}, // engine rejects these, not the parser
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChannelArgs(tt.args)
			if err != nil {
				t.Fatalf("parseChannelArgs(%v) error: %v", tt.args, err)
			}
			if !maps.Equal(got, tt.want) {
				t.Errorf("parseChannelArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseChannelArgsRejectsBadSyntax(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "no equals", arg: "1255"},
		{name: "channel not a number", arg: "one=255"},
		{name: "value not a number", arg: "1=full"},
		{name: "empty channel", arg: "=255"},
		{name: "empty value", arg: "1="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseChannelArgs([]string{tt.arg}); err == nil {
				t.Errorf("parseChannelArgs(%q) accepted bad syntax", tt.arg)
			}
		})
	}
}
