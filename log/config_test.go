package log

import (
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelDebug || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.mutex == nil {
		t.Error("options on a zero config left it without a mutex")
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"named", "RFC3339", "2024-03-05T14:07:09Z"},
		{"named nano", "rfc3339-nano", "2024-03-05T14:07:09.123456789Z"},
		{"kitchen", "Kitchen", "2:07PM"},
		{"custom verbatim", " 2006-01-02 15:04", " 2024-03-05 14:07"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"blank", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithTimeLayout(tt.layout)(config{}).formatTime(now); got != tt.want {
				t.Errorf("formatTime with %q = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
