package builtin_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

func newEnv() *eval.Env {
	vars := eval.NewVars(nil)
	vars.Set("gutter", value.Dimension{Num: value.Int(12), Unit: unit.Px})

	return &eval.Env{Scope: vars, Funcs: builtin.NewRegistry()}
}

func evaluate(t *testing.T, env *eval.Env, src string) (string, error) {
	t.Helper()

	v, err := env.EvaluateString(src)
	if err != nil {
		return "", err
	}

	if v, err = value.Resolve(v); err != nil {
		return "", err
	}

	return v.String(), nil
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"percentage", "percentage(0.5)", "50%"},
		{"percentage named", "percentage($number: 0.25)", "25%"},
		{"round half up", "round(4.5px)", "5px"},
		{"round down", "round(4.4px)", "4px"},
		{"round negative half", "round(-4.5)", "-5"},
		{"ceil", "ceil(4.1em)", "5em"},
		{"floor", "floor(-4.1em)", "-5em"},
		{"abs", "abs(-3cm)", "3cm"},
		{"abs variable", "abs(-$gutter)", "12px"},
		{"comparable", "comparable(1px, 1in)", "true"},
		{"comparable unitless", "comparable(1, 1deg)", "true"},
		{"not comparable", "comparable(1px, 1deg)", "false"},
		{"not comparable relative", "comparable(1em, 1px)", "false"},
		{"min", "min(3px, 1in, 2px)", "2px"},
		{"max", "max(3px, 1in, 2px)", "1in"},
		{"min plain css", "min(1px, var(--x))", "min(1px, var(--x))"},
		{"percentage of quotient", "percentage(1/2)", "50%"},
		{"round quotient", "round(7/2)", "4"},
		{"nested quotient", "abs(round(-7/2))", "4"},
		{"min incompatible units", "min(1px, 1deg)", "min(1px, 1deg)"},
		{"max incompatible units", "max(1em, 2px, 1px)", "max(1em, 2px, 1px)"},
		{"unit", "unit(3px)", `"px"`},
		{"unit none", "unit(3)", `""`},
		{"unitless", "unitless(3)", "true"},
		{"type-of number", "type-of(1px)", "number"},
		{"type-of list", "meta.type-of((1 2))", "list"},
		{"type-of string", "type_of('a')", "string"},
		{"module alias", "math.round(1.5)", "2"},
		{"module rename", "math.is-unitless(1px)", "false"},
		{"div", "math.div(12px, 4)", "3px"},
		{"div by zero", "math.div(1, 0)", "Infinity"},
		{"nested", "percentage(math.div(1, 4)) + 1%", "26%"},

		{"clamp middle", "math.clamp(0, 1, 2)", "1"},
		{"clamp first bigger", "math.clamp(2, 1, 0)", "2"},
		{"clamp units", "math.clamp(0mm, 1cm, 2in)", "1cm"},
		{"clamp low", "math.clamp(1, 0, 2)", "1"},
		{"clamp high", "math.clamp(0, 3, 2)", "2"},

		{"sqrt", "math.sqrt(99)", "9.9498743711"},
		{"sqrt negative", "math.sqrt(-99)", "NaN"},
		{"sqrt two", "math.sqrt(2)", "1.4142135624"},
		{"sqrt nan", "math.sqrt((0 / 0))", "NaN"},

		{"cos deg", "math.cos(1deg)", "0.9998476952"},
		{"cos rad", "math.cos(1rad)", "0.5403023059"},
		{"cos unitless", "math.cos(1)", "0.5403023059"},
		{"cos pi", "math.cos(math.$pi)", "-1"},
		{"cos two pi", "math.cos(2 * math.$pi)", "1"},
		{"cos turn", "math.cos(0.5turn)", "-1"},
		{"sin deg", "math.sin(1deg)", "0.0174524064"},
		{"sin", "math.sin(1)", "0.8414709848"},
		{"sin negative", "math.sin(-1)", "-0.8414709848"},
		{"sin pi", "math.sin(math.$pi)", "0"},
		{"tan deg", "math.tan(1deg)", "0.0174550649"},
		{"tan", "math.tan(1)", "1.5574077247"},
		{"tan pi", "math.tan(math.$pi)", "0"},

		{"acos out of range", "math.acos(2)", "NaNdeg"},
		{"acos one", "math.acos(1)", "0deg"},
		{"acos minus one", "math.acos(-1)", "180deg"},
		{"acos zero", "math.acos(0)", "90deg"},
		{"acos half", "math.acos(.5)", "60deg"},
		{"asin one", "math.asin(1)", "90deg"},
		{"asin minus one", "math.asin(-1)", "-90deg"},
		{"asin half", "math.asin(.5)", "30deg"},
		{"atan two", "math.atan(2)", "63.4349488229deg"},
		{"atan one", "math.atan(1)", "45deg"},
		{"atan half", "math.atan(.5)", "26.5650511771deg"},

		{"log", "math.log(2)", "0.6931471806"},
		{"log negative", "math.log(-2)", "NaN"},
		{"log one", "math.log(1)", "0"},
		{"log half", "math.log(.5)", "-0.6931471806"},
		{"log zero", "math.log(0)", "-Infinity"},
		{"log base", "math.log(2, 2)", "1"},
		{"log negative base", "math.log(2, -2)", "NaN"},
		{"log zero base", "math.log(2, 0)", "0"},
		{"log half base", "math.log(2, .5)", "-1"},
		{"log named base", "math.log($base: 10, $number: 100)", "2"},

		{"pow", "math.pow(10, 10)", "10000000000"},
		{"pow negative base", "math.pow(-2, 3)", "-8"},
		{"pow negative exponent", "math.pow(2, -3)", "0.125"},
		{"pow both negative", "math.pow(-2, -3)", "-0.125"},
		{"pow decimal base", "math.pow(2.4, 3)", "13.824"},
		{"pow decimal exponent", "math.pow(2, 3.5)", "11.313708499"},
		{"pow zero", "math.pow(2, 0)", "1"},
		{"pow zero base", "math.pow(0, -1)", "Infinity"},
		{"pow huge exponent", "math.pow(2, 18446744073709551618)", "Infinity"},
		{"pow huge negative exponent", "math.pow(2, -18446744073709551618)", "0"},
		{"pow large exponent", "math.pow(2, 1e20)", "Infinity"},

		{"pi", "math.$pi", "3.1415926536"},
		{"e", "math.$e", "2.7182818285"},
	}

	env := newEnv()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := evaluate(t, env, tt.src)
			if err != nil {
				t.Fatalf("%s: %v", tt.src, err)
			}

			if got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestBuiltins_Errors(t *testing.T) {
	const mixed = " Arguments must all have units or all be unitless."

	tests := []struct {
		name  string
		src   string
		class error
		cause string
	}{
		{"percentage unit", "percentage(50%)", diag.ErrType, "$number: Expected 50% to have no units."},
		{"percentage string", "percentage(a)", diag.ErrType, "$number: a is not a number."},
		{"round string", "round(\"a\")", diag.ErrType, `$number: "a" is not a number.`},
		{"comparable string", "comparable(foo, 1)", diag.ErrType, "$number1: foo is not a number."},
		{"comparable missing", "comparable(1)", diag.ErrBinding, "Missing argument $number2."},
		{"percentage extra", "percentage(1, 2)", diag.ErrBinding, "Only 1 argument allowed, but 2 were passed."},
		{"percentage unknown name", "percentage(1, $n: 1)", diag.ErrBinding, "No argument named $n."},
		{"round twice", "round(1, $number: 2)", diag.ErrBinding, "Argument $number was passed both by position and by name."},
		{"min empty", "min()", diag.ErrBinding, "At least one argument must be passed."},
		{"clamp unitless min", "math.clamp(0, 1cm, 2)", diag.ErrType, "$min is unitless but $number has unit cm." + mixed},
		{"clamp unitless number", "math.clamp(0mm, 1, 2)", diag.ErrType, "$min has unit mm but $number is unitless." + mixed},
		{"clamp unitless max", "math.clamp(0mm, 1cm, 2)", diag.ErrType, "$min has unit mm but $max is unitless." + mixed},
		{"sqrt unit", "math.sqrt(1px)", diag.ErrType, "$number: Expected 1px to have no units."},
		{"cos unit", "math.cos(1px)", diag.ErrType, "$number: Expected 1px to be an angle."},
		{"sin unit", "math.sin(1px)", diag.ErrType, "$number: Expected 1px to be an angle."},
		{"tan unit", "math.tan(1px)", diag.ErrType, "$number: Expected 1px to be an angle."},
		{"acos unit", "math.acos(1deg)", diag.ErrType, "$number: Expected 1deg to have no units."},
		{"log base unit", "math.log(2, 2px)", diag.ErrType, "$base: Expected 2px to have no units."},
		{"pow exponent unit", "math.pow(2, 2px)", diag.ErrType, "$exponent: Expected 2px to have no units."},
		{"div incompatible", "math.div(1px, 1deg)", diag.ErrArithmetic, "1px/deg isn't a valid CSS value."},
	}

	env := newEnv()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := evaluate(t, env, tt.src)
			if err == nil {
				t.Fatalf("%s succeeded", tt.src)
			}

			if !errors.Is(err, tt.class) {
				t.Errorf("error %v is not %v", err, tt.class)
			}

			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a diag.Error", err)
			}

			if de.Cause() != tt.cause {
				t.Errorf("cause = %q, want %q", de.Cause(), tt.cause)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := builtin.NewRegistry()

	for _, name := range []string{"percentage", "math.percentage", "type_of", "meta.type-of"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("Lookup(%q) found nothing", name)
		}
	}

	for _, name := range []string{"", "sqrt", "math.nope", "calc"} {
		if _, ok := r.Lookup(name); ok {
			t.Errorf("Lookup(%q) found a builtin", name)
		}
	}

	if _, ok := r.Const("math", "tau"); ok {
		t.Error("Const(math, tau) found a value")
	}

	if v, ok := r.Const("math", "pi"); !ok || v.String() != "3.1415926536" {
		t.Errorf("Const(math, pi) = %v, %v", v, ok)
	}
}

func TestRegistry_Info(t *testing.T) {
	t.Parallel()

	r := builtin.NewRegistry()

	info, ok := r.Info("max")
	if !ok {
		t.Fatal("Info(max) found nothing")
	}

	if info.Signature != "($numbers...)" || !info.Variadic || info.Module != "math" {
		t.Errorf("Info(max) = %+v", info)
	}

	if !slices.Equal(info.Aliases, []string{"math.max"}) {
		t.Errorf("Info(max).Aliases = %v", info.Aliases)
	}

	info, ok = r.Info("math.log")
	if !ok || info.Name != "math.log" || info.Arity != 2 || info.Signature != "($number, $base: null)" {
		t.Errorf("Info(math.log) = %+v, %v", info, ok)
	}

	var n int
	for info := range r.All() {
		n++

		if info.Doc == "" {
			t.Errorf("%s has no doc", info.Name)
		}
	}

	if names := r.Names(); len(names) <= n || !slices.IsSorted(names) {
		t.Errorf("Names() = %v, want more than %d sorted names", names, n)
	}
}
