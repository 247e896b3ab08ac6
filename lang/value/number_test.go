package value

import (
	"errors"
	"math"
	"testing"

	"github.com/ardnew/scss/lang/diag"
)

func mustNumber(t *testing.T, s string) Number {
	t.Helper()

	n, err := ParseNumber(s)
	if err != nil {
		t.Fatalf("ParseNumber(%q): %v", s, err)
	}

	return n
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"12", "12"},
		{"-3", "-3"},
		{"0.5", "0.5"},
		{".25", "0.25"},
		{"-.75", "-0.75"},
		{"1e3", "1000"},
		{"1.5e-2", "0.015"},
		{"9999999999999999999999999999999999999999999999999", "9999999999999999999999999999999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := mustNumber(t, tt.in).String(); got != tt.want {
				t.Errorf("ParseNumber(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1/2", "NaN", "Infinity", "1e10001", "1e-10001", "-.5e20000"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseNumber(in); !errors.Is(err, diag.ErrSyntax) {
				t.Errorf("ParseNumber(%q) error = %v, want syntax error", in, err)
			}
		})
	}
}

func TestParseNumber_ExponentBound(t *testing.T) {
	t.Parallel()

	n, err := ParseNumber("1e10000")
	if err != nil {
		t.Fatalf("ParseNumber at the bound: %v", err)
	}

	if len(n.Big().Num().String()) != 10001 {
		t.Errorf("1e10000 has %d digits", len(n.Big().Num().String()))
	}

	_, err = ParseNumber("1e10001")
	if got, want := diag.WrapError(err).Cause(), `Exponent of "1e10001" is out of range.`; got != want {
		t.Errorf("cause = %q, want %q", got, want)
	}
}

func TestNumber_ExactArithmetic(t *testing.T) {
	t.Parallel()

	// 0.1 + 0.2 is exactly 0.3 with rationals.
	sum := mustNumber(t, "0.1").Add(mustNumber(t, "0.2"))
	if !sum.Equal(mustNumber(t, "0.3")) {
		t.Errorf("0.1 + 0.2 = %s, want exactly 0.3", sum)
	}

	third := Int(1).Quo(Int(3))
	if got := third.Mul(Int(3)); !got.Equal(Int(1)) {
		t.Errorf("(1/3)*3 = %s, want 1", got)
	}

	if got := third.String(); got != "0.3333333333" {
		t.Errorf("1/3 renders %q", got)
	}
}

func TestNumber_Rounding(t *testing.T) {
	tests := []struct {
		in                       string
		round, ceil, floor, absv string
	}{
		{"4.5", "5", "5", "4", "4.5"},
		{"-4.5", "-5", "-4", "-5", "4.5"},
		{"4.4", "4", "5", "4", "4.4"},
		{"-4.6", "-5", "-4", "-5", "4.6"},
		{"3", "3", "3", "3", "3"},
		{"-0.2", "0", "0", "-1", "0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			n := mustNumber(t, tt.in)

			for name, pair := range map[string][2]string{
				"round": {n.Round().String(), tt.round},
				"ceil":  {n.Ceil().String(), tt.ceil},
				"floor": {n.Floor().String(), tt.floor},
				"abs":   {n.Abs().String(), tt.absv},
			} {
				if pair[0] != pair[1] {
					t.Errorf("%s(%s) = %s, want %s", name, tt.in, pair[0], pair[1])
				}
			}
		})
	}
}

func TestNumber_NonFinite(t *testing.T) {
	t.Parallel()

	if got := Int(0).Quo(Int(0)); !got.IsNaN() || got.String() != "NaN" {
		t.Errorf("0/0 = %s, want NaN", got)
	}

	if got := Int(1).Quo(Int(0)).String(); got != "Infinity" {
		t.Errorf("1/0 = %s, want Infinity", got)
	}

	if got := Int(-1).Quo(Int(0)).String(); got != "-Infinity" {
		t.Errorf("-1/0 = %s, want -Infinity", got)
	}

	if got := NaN().Add(Int(1)); !got.IsNaN() {
		t.Errorf("NaN + 1 = %s, want NaN", got)
	}

	if _, ok := NaN().Cmp(Int(0)); ok {
		t.Error("NaN compares as ordered")
	}

	if got := Float(math.Sqrt(-1)); !got.IsNaN() {
		t.Errorf("Float(NaN) = %s", got)
	}
}

func TestNumber_Mod(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"5", "3", "2"},
		{"-5", "3", "1"},
		{"5", "-3", "-1"},
		{"5.5", "2", "1.5"},
		{"5", "0", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.a+"%"+tt.b, func(t *testing.T) {
			t.Parallel()

			got := mustNumber(t, tt.a).Mod(mustNumber(t, tt.b)).String()
			if got != tt.want {
				t.Errorf("%s %% %s = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNumber_StringTrimsNegativeZero(t *testing.T) {
	t.Parallel()

	tiny := Float(-1.2246467991473532e-16)
	if got := tiny.String(); got != "0" {
		t.Errorf("tiny negative renders %q, want 0", got)
	}

	if got := Frac(100000000001, 1000000000000).String(); got != "0.1" {
		t.Errorf("0.100000000001 renders %q, want 0.1", got)
	}
}
