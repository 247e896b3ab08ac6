package profile_test

import (
	"slices"
	"testing"

	"github.com/ardnew/scss/profile"
)

func TestProfiler_Disabled(t *testing.T) {
	t.Parallel()

	for _, p := range []profile.Profiler{
		{},
		{Mode: "nope", Dir: t.TempDir()},
	} {
		s := p.Start()
		if s == nil {
			t.Fatalf("%+v.Start() = nil", p)
		}

		s.Stop()
		s.Stop()
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	modes := profile.Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if profile.Enabled != slices.Contains(modes, "cpu") {
		t.Errorf("Enabled = %v, Modes() = %v", profile.Enabled, modes)
	}
}
