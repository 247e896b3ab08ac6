package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"DEBUG+2", Level(2 - 4)},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}

	if got := Level(LevelInfo + 1).String(); got != "info+1" {
		t.Errorf("Level(5).String() = %q, want info+1", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"json":   FormatJSON,
		" JSON ": FormatJSON,
		"text":   FormatText,
		"yaml":   DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	c := makeConfig(nil,
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithTimeLayout("none"),
		nil,
	)

	if c.level != LevelDebug || c.format != FormatJSON || !c.caller || c.pretty || c.timeLayout != "none" {
		t.Errorf("makeConfig = %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer was not replaced")
	}

	d := WithDefaults(nil)(c)
	if d.level != DefaultLevel || d.format != DefaultFormat || d.caller != DefaultCaller || d.pretty != DefaultPretty {
		t.Errorf("WithDefaults = %+v", d)
	}
}

func TestResolveTimeLayout(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"punctuation ignored", "rfc-3339", "2023-10-15T14:30:45Z"},
		{"kitchen", "kitchen", "2:30PM"},
		{"date time", "DateTime", "2023-10-15 14:30:45"},
		{"custom", "2006/01/02", "2023/10/15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := now.Format(resolveTimeLayout(tt.layout)); got != tt.want {
				t.Errorf("layout %q formats %q, want %q", tt.layout, got, tt.want)
			}
		})
	}

	for _, off := range []string{"", "  ", "none", "None"} {
		if got := resolveTimeLayout(off); got != "" {
			t.Errorf("resolveTimeLayout(%q) = %q, want empty", off, got)
		}
	}

	for name := range TimeLayouts() {
		if name != "None" && resolveTimeLayout(name) == "" {
			t.Errorf("named layout %q is not resolved", name)
		}
	}
}
