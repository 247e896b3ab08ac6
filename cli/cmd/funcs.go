package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/lang/builtin"
)

// Funcs lists the builtin functions.
type Funcs struct {
	Output `embed:""`

	Query string `arg:"" help:"Fuzzy match against function names." optional:""`
	Where string `help:"Keep functions for which this expression is true, e.g. 'module == \"math\" && arity > 1'. Fields: name, aliases, module, signature, doc, arity, variadic." short:"w"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	infos, err := f.filter(slices.Collect(builtin.NewRegistry().All()))
	if err != nil {
		return err
	}

	if lang.ParseFormat(f.Format) != lang.FormatText {
		return f.encode(ctx, infos)
	}

	_, err = fmt.Fprintln(outputFrom(ctx), renderInfos(infos))

	return err
}

// filter applies the --where predicate and then the fuzzy query. Fuzzy
// matches are ranked best first; otherwise declaration order is kept.
func (f *Funcs) filter(infos []builtin.Info) ([]builtin.Info, error) {
	if strings.TrimSpace(f.Where) != "" {
		prog, err := expr.Compile(f.Where, expr.Env(builtin.Info{}), expr.AsBool())
		if err != nil {
			return nil, ErrQuery.Wrap(err).With(slog.String("where", f.Where))
		}

		infos, err = where(prog, infos)
		if err != nil {
			return nil, ErrQuery.Wrap(err).With(slog.String("where", f.Where))
		}
	}

	if f.Query == "" {
		return infos, nil
	}

	matches := fuzzy.FindFrom(f.Query, infoSource(infos))
	found := make([]builtin.Info, 0, len(matches))

	for _, m := range matches {
		found = append(found, infos[m.Index])
	}

	return found, nil
}

func where(prog *vm.Program, infos []builtin.Info) ([]builtin.Info, error) {
	kept := make([]builtin.Info, 0, len(infos))

	for _, info := range infos {
		out, err := expr.Run(prog, info)
		if err != nil {
			return nil, err
		}

		if ok, _ := out.(bool); ok {
			kept = append(kept, info)
		}
	}

	return kept, nil
}

// infoSource matches a builtin by its name and aliases.
type infoSource []builtin.Info

func (s infoSource) String(i int) string {
	return strings.Join(append([]string{s[i].Name}, s[i].Aliases...), " ")
}

func (s infoSource) Len() int { return len(s) }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderInfos(infos []builtin.Info) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("FUNCTION", "ALIASES", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for _, info := range infos {
		t.Row(info.Name+info.Signature, strings.Join(info.Aliases, ", "), info.Doc)
	}

	return t.Render()
}
