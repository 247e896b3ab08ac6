package eval_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/lang/token"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

// funcs is a small function table for exercising calls.
type funcs map[string]eval.Func

func (f funcs) Lookup(name string) (eval.Func, bool) {
	fn, ok := f[name]

	return fn, ok
}

func (funcs) Const(module, name string) (value.Value, bool) {
	if module == "math" && name == "pi" {
		return value.Num(value.Frac(314, 100)), true
	}

	return nil, false
}

func double(env *eval.Env, call *args.CallArgs) (value.Value, bool, error) {
	params, err := args.ParseSignature("($number, $factor: 2)")
	if err != nil {
		return nil, false, err
	}

	b, err := args.Bind(params, call, env, func(b *args.Bindings) args.Evaluator {
		return env.With(b)
	})
	if err != nil {
		return nil, false, err
	}

	n, _ := b.Get("number")
	f, _ := b.Get("factor")

	if n, err = value.Resolve(n); err != nil {
		return nil, false, err
	}

	v, err := value.Times(n, f)

	return v, true, err
}

func parseCall(src string) (*args.CallArgs, error) {
	c := token.NewCursor(token.Lex(src))
	c.Next()

	return args.ParseActualArgs(c)
}

func newEnv() *eval.Env {
	vars := eval.NewVars(nil)
	vars.Set("x", value.Dimension{Num: value.Int(3), Unit: unit.Px})
	vars.Set("w", value.Dimension{Num: value.Int(10), Unit: unit.Px})
	vars.Set("font_size", value.Dimension{Num: value.Int(16), Unit: unit.Px})

	return &eval.Env{
		Scope:    vars,
		Selector: ".nav > a",
		Funcs: funcs{
			"double": double,
			"never": func(*eval.Env, *args.CallArgs) (value.Value, bool, error) {
				return nil, false, nil
			},
			"selector": func(env *eval.Env, call *args.CallArgs) (value.Value, bool, error) {
				s, _ := env.Selector.(string)

				return value.Quoted(s), true, nil
			},
		},
	}
}

func TestEnv_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"sum", "1 + 2", "3"},
		{"sum units", "1px + 2px", "3px"},
		{"sum converts", "1in + 96px", "2in"},
		{"difference spaced", "1 - 2", "-1"},
		{"difference tight", "1-2", "-1"},
		{"negative list", "1 -2", "1 -2"},
		{"product", "2 * 3px", "6px"},
		{"precedence", "1 + 2 * 3", "7"},
		{"grouping", "(1 + 2) * 3", "9"},
		{"slash separates literals", "12px/1.5", "12px/1.5"},
		{"slash divides in parens", "(12px/2)", "6px"},
		{"slash divides variables", "$w / 2", "5px"},
		{"slash divides in arguments", "double(12px/2)", "12px"},
		{"slash kept in plain arguments", "foo(1/2, (4/2))", "foo(1/2, 2)"},
		{"slash kept on fall through", "never(12px/2)", "never(12px/2)"},
		{"modulo", "10 % 3", "1"},
		{"modulo floors", "-10 % 3", "2"},
		{"percent", "50% + 10%", "60%"},
		{"comma list", "1, 2, 3", "1, 2, 3"},
		{"nested lists", "1 2, 3 4", "1 2, 3 4"},
		{"paren list", "(1, 2)", "1, 2"},
		{"empty list", "()", "()"},
		{"equality reduces", "1 + 1 == 2", "true"},
		{"equality units", "1in == 96px", "true"},
		{"equality unitless", "1 == 1px", "false"},
		{"equality quotes", "a == 'a'", "true"},
		{"inequality", "1 != 2", "true"},
		{"less", "1 < 2", "true"},
		{"greater equal converts", "2px >= 1in", "false"},
		{"and", "true and false", "false"},
		{"and value", "1 and 2", "2"},
		{"or", "null or 3", "3"},
		{"or short circuits", "true or $nope", "true"},
		{"and short circuits", "false and $nope", "false"},
		{"skipped call", "1 or double($nope)", "1"},
		{"skipped parens", "null and ($nope * 2px)", "null"},
		{"skipped constant", "false and math.$nope", "false"},
		{"skipped arithmetic", "true or $nope < 1px * $nope", "true"},
		{"skip then evaluate", "false and $nope or 2", "2"},
		{"not", "not null", "true"},
		{"not zero", "not 0", "false"},
		{"concat quoted", `"a" + b`, `"ab"`},
		{"concat unquoted", "a + 'b'", "ab"},
		{"color", "#fff", "#fff"},
		{"negate variable", "-$x", "-3px"},
		{"vendor ident", "-webkit-box", "-webkit-box"},
		{"exponent", "1e3", "1000"},
		{"negative exponent", "1.5e-1", "0.15"},
		{"leading dot", ".5em", "0.5em"},
		{"important", "1px !important", "1px !important"},
		{"keywords", "true false null", "true false null"},
		{"variable canonical", "$font-size", "16px"},
		{"comment", "1 /* one */ + 2", "3"},
		{"raw calc", "calc(100% - 10px)", "calc(100% - 10px)"},
		{"plain function", "foo(1 + 1, $x)", "foo(2, 3px)"},
		{"module constant", "math.$pi", "3.14"},
		{"builtin", "double(2px)", "4px"},
		{"builtin named", "double($factor: 3, $number: 2)", "6"},
		{"builtin nested", "double(double(1) + 1)", "6"},
		{"fall through", "never(1, 2)", "never(1, 2)"},
		{"selector", "selector()", `".nav > a"`},
	}

	env := newEnv()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := env.EvaluateString(tt.src)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.src, err)
			}

			if v, err = value.Resolve(v); err != nil {
				t.Fatalf("Resolve(%q): %v", tt.src, err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestEnv_Evaluate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		class error
		cause string
	}{
		{"empty", "", diag.ErrSyntax, "Expected expression."},
		{"blank", "  ", diag.ErrSyntax, "Expected expression."},
		{"unclosed paren", "(1", diag.ErrSyntax, `expected ")".`},
		{"stray paren", "1 )", diag.ErrSyntax, `Unexpected ")".`},
		{"unknown unit", "1foo", diag.ErrSyntax, `Unknown unit "foo".`},
		{"bad color", "#xyz", diag.ErrSyntax, `Expected hex digit in "#xyz".`},
		{"unterminated string", `"abc`, diag.ErrSyntax, `expected "\"".`},
		{"undefined variable", "$nope", diag.ErrBinding, "Undefined variable $nope."},
		{"undefined constant", "math.$tau", diag.ErrBinding, "Undefined variable math.$tau."},
		{"or evaluates undecided", "false or $nope", diag.ErrBinding, "Undefined variable $nope."},
		{"and evaluates undecided", "1 and $nope", diag.ErrBinding, "Undefined variable $nope."},
		{"skipped syntax", "true or (1", diag.ErrSyntax, `expected ")".`},
		{"keyword to plain function", "foo($a: 1)", diag.ErrBinding, "Plain CSS functions don't support keyword arguments."},
		{"builtin arity", "double(1, 2, 3)", diag.ErrBinding, "Only 2 arguments allowed, but 3 were passed."},
		{"incompatible product", "1px * 1px", diag.ErrArithmetic, "1px*px isn't a valid CSS value."},
		{"compare string", "a < 1", diag.ErrType, "a is not a number."},
		{"compare units", "1px < 1deg", diag.ErrArithmetic, "Incompatible units px and deg."},
	}

	env := newEnv()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := env.EvaluateString(tt.src)
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded", tt.src)
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

func TestEnv_Evaluate_DeferredAddition(t *testing.T) {
	t.Parallel()

	v, err := newEnv().EvaluateString("1px + 1deg")
	if err != nil {
		t.Fatalf("addition was not deferred: %v", err)
	}

	if _, ok := v.(value.BinaryOp); !ok {
		t.Fatalf("Evaluate = %#v, want a BinaryOp", v)
	}

	if _, err := value.Resolve(v); !errors.Is(err, diag.ErrArithmetic) {
		t.Errorf("Resolve error = %v, want arithmetic error", err)
	}
}

func TestEnv_Evaluate_ErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := newEnv().EvaluateString("1px +\n  $nope")

	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v", err)
	}

	if got := de.Position().String(); got != "2:3" {
		t.Errorf("position = %s, want 2:3", got)
	}
}

func TestEnv_Evaluate_ListShape(t *testing.T) {
	t.Parallel()

	v, err := newEnv().EvaluateString("1 -2, 3")
	if err != nil {
		t.Fatal(err)
	}

	outer, ok := v.(value.List)
	if !ok || outer.Sep != value.Comma || len(outer.Elems) != 2 {
		t.Fatalf("Evaluate = %#v, want a two element comma list", v)
	}

	inner, ok := outer.Elems[0].(value.List)
	if !ok || inner.Sep != value.Space || len(inner.Elems) != 2 {
		t.Errorf("first element = %#v, want a two element space list", outer.Elems[0])
	}

	v, err = newEnv().EvaluateString("1,")
	if err != nil {
		t.Fatal(err)
	}

	if l, ok := v.(value.List); !ok || len(l.Elems) != 1 || l.Sep != value.Comma {
		t.Errorf("trailing comma = %#v, want a one element comma list", v)
	}
}

func TestEnv_MaxDepth(t *testing.T) {
	t.Parallel()

	env := newEnv()
	env.MaxDepth = 2

	if _, err := env.EvaluateString("((1))"); err != nil {
		t.Errorf("depth 2: %v", err)
	}

	if _, err := env.EvaluateString("(((1)))"); !errors.Is(err, diag.ErrSyntax) {
		t.Errorf("depth 3 error = %v, want syntax error", err)
	}

	for _, src := range []string{"double(double(1))", "(double(1))", "foo(foo(1))"} {
		if _, err := env.EvaluateString(src); err != nil {
			t.Errorf("%s: %v", src, err)
		}
	}

	for _, src := range []string{"double(double(double(1)))", "double((double(1)))", "foo(foo(foo(1)))"} {
		if _, err := env.EvaluateString(src); !errors.Is(err, diag.ErrSyntax) {
			t.Errorf("%s error = %v, want syntax error", src, err)
		}
	}
}

func TestEnv_EvaluatorForBinder(t *testing.T) {
	t.Parallel()

	params, err := args.ParseSignature("($a, $b: $a * 2, $c: $x)")
	if err != nil {
		t.Fatal(err)
	}

	env := newEnv()

	call, err := parseCall("(5px)")
	if err != nil {
		t.Fatal(err)
	}

	b, err := args.Bind(params, call, env, func(b *args.Bindings) args.Evaluator {
		return env.With(eval.Chain(b, env.Scope))
	})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for name, v := range b.All() {
		got = append(got, name+"="+v.String())
	}

	if want := []string{"a=5px", "b=10px", "c=3px"}; !slices.Equal(got, want) {
		t.Errorf("bindings = %v, want %v", got, want)
	}
}

func TestVars(t *testing.T) {
	t.Parallel()

	parent := eval.NewVars(nil)
	parent.Set("a", value.Str("parent"))
	parent.Set("b", value.Str("parent"))

	child := eval.NewVars(parent)
	child.Set("b_c", value.Str("child"))
	child.Set("b", value.Str("child"))

	tests := map[string]string{"a": "parent", "b": "child", "b-c": "child", "b_c": "child"}
	for name, want := range tests {
		v, ok := child.Var(name)
		if !ok || v.String() != want {
			t.Errorf("Var(%q) = %v, %v, want %s", name, v, ok, want)
		}
	}

	if _, ok := child.Var("missing"); ok {
		t.Error("Var(missing) found a value")
	}

	if got := child.Names(); !slices.Equal(got, []string{"b", "b-c"}) {
		t.Errorf("Names = %v", got)
	}

	var nilVars *eval.Vars
	if _, ok := nilVars.Var("a"); ok {
		t.Error("nil Vars found a value")
	}

	chain := eval.Chain(nil, nilVars, child)
	if v, ok := chain.Var("a"); !ok || v.String() != "parent" {
		t.Errorf("Chain Var(a) = %v, %v", v, ok)
	}
}
