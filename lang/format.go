package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects how results are written.
type Format int

// Output formats.
const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// DefaultFormat is the output format used when none is given.
const DefaultFormat = FormatText

var formatName = map[Format]string{
	FormatText: "text",
	FormatJSON: "json",
	FormatYAML: "yaml",
}

func (f Format) String() string {
	if s, ok := formatName[f]; ok {
		return s
	}

	return DefaultFormat.String()
}

// Formats returns the names of the supported output formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatText, FormatJSON, FormatYAML} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named s, ignoring case and surrounding
// space, or [DefaultFormat] if s names no format.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	for f, name := range formatName {
		if name == s {
			return f
		}
	}

	return DefaultFormat
}

// WriteResults writes results to w in format f. Structured formats are
// indented by indent spaces, or written compactly if indent is zero.
func WriteResults(ctx context.Context, w io.Writer, f Format, indent int, results ...Result) error {
	if results == nil {
		results = []Result{}
	}

	if f == FormatText {
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r); err != nil {
				return err
			}
		}

		return nil
	}

	return Encode(ctx, w, f, indent, results)
}

// Encode writes v to w as JSON or YAML. Text format writes v's default
// string form.
func Encode(ctx context.Context, w io.Writer, f Format, indent int, v any) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, indent, v)
	case FormatYAML:
		return encodeYAML(ctx, w, indent, v)
	default:
		_, err := fmt.Fprintln(w, v)

		return err
	}
}

func encodeJSON(w io.Writer, indent int, v any) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func encodeYAML(ctx context.Context, w io.Writer, indent int, v any) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
