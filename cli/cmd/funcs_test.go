package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/scss/lang/builtin"
)

func TestFuncsFilter(t *testing.T) {
	t.Parallel()

	all := slices.Collect(builtin.NewRegistry().All())

	tests := []struct {
		name    string
		funcs   Funcs
		check   func(t *testing.T, got []builtin.Info)
		wantErr error
	}{
		{
			name:  "everything",
			funcs: Funcs{},
			check: func(t *testing.T, got []builtin.Info) {
				if len(got) != len(all) {
					t.Errorf("got %d functions, want %d", len(got), len(all))
				}
			},
		},
		{
			name:  "fuzzy query",
			funcs: Funcs{Query: "percent"},
			check: func(t *testing.T, got []builtin.Info) {
				if len(got) == 0 || got[0].Name != "percentage" {
					t.Errorf("best match = %v, want percentage first", got)
				}
			},
		},
		{
			name:  "query matches alias",
			funcs: Funcs{Query: "math.is-unitless"},
			check: func(t *testing.T, got []builtin.Info) {
				if len(got) == 0 || got[0].Name != "unitless" {
					t.Errorf("best match = %v, want unitless first", got)
				}
			},
		},
		{
			name:  "where",
			funcs: Funcs{Where: `variadic && module == "math"`},
			check: func(t *testing.T, got []builtin.Info) {
				if len(got) == 0 {
					t.Fatal("no variadic math functions")
				}

				for _, info := range got {
					if !info.Variadic || info.Module != "math" {
						t.Errorf("%s does not satisfy the filter", info.Name)
					}
				}
			},
		},
		{
			name:    "where not boolean",
			funcs:   Funcs{Where: `name`},
			wantErr: ErrQuery,
		},
		{
			name:    "where syntax error",
			funcs:   Funcs{Where: `arity >`},
			wantErr: ErrQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.funcs.filter(all)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("filter() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("filter() error = %v", err)
			}

			tt.check(t, got)
		})
	}
}

func TestFuncsRun(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		f := Funcs{Query: "percentage"}
		if err := f.Run(WithOutput(t.Context(), &buf)); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"FUNCTION", "percentage($number)", "math.percentage"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		f := Funcs{Output: Output{Format: "json"}, Where: `name == "math.div"`}
		if err := f.Run(WithOutput(t.Context(), &buf)); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var got []builtin.Info
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}

		if len(got) != 1 || got[0].Name != "math.div" || got[0].Module != "math" {
			t.Errorf("got %+v", got)
		}
	})
}
