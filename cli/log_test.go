package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogConfig_scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate_values",
			args: []string{"merge", "--log-level", "debug", "--log-format", "json", "doc.yaml"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned_values",
			args: []string{"--log-level=trace", "--log-caller", "--no-log-pretty"},
			want: logConfig{Level: "trace", Caller: true},
		},
		{
			name: "explicit_booleans",
			args: []string{"--log-caller=false", "--no-log-pretty=false"},
			want: logConfig{Pretty: true},
		},
		{
			name: "unparsable_boolean_kept",
			args: []string{"--log-pretty=maybe"},
			want: logConfig{Pretty: true},
		},
		{
			name: "value_not_consumed_from_flag",
			args: []string{"--log-level", "--data", "x.yaml"},
			want: logConfig{Pretty: true},
		},
		{
			name: "unrelated_flags",
			args: []string{"--logfile", "-d", "x.yaml"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scan(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestNegatable(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		assigned bool
		old      bool
		want     bool
	}{
		{"--log-caller", "", false, false, true},
		{"--no-log-caller", "", false, true, false},
		{"--log-caller", "false", true, true, false},
		{"--no-log-caller", "false", true, false, true},
		{"--log-caller", "bogus", true, true, true},
	}

	for _, tt := range tests {
		if got := negatable(tt.name, tt.value, tt.assigned, tt.old); got != tt.want {
			t.Errorf("negatable(%q, %q, %v, %v) = %v, want %v",
				tt.name, tt.value, tt.assigned, tt.old, got, tt.want)
		}
	}
}
