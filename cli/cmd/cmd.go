package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" if ctx carries no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// Session holds the flags shared by commands that evaluate expressions.
type Session struct {
	Define   []string `help:"Define a global variable before evaluating (repeatable)." placeholder:"NAME=EXPR" short:"D"`
	MaxDepth int      `default:"64"                                                    help:"Maximum nesting of parenthesized expressions."`
}

// compiler returns a compiler holding the session's definitions, which are
// evaluated in order so that each may refer to the ones before it.
func (s Session) compiler(ctx context.Context, command string) (*lang.Compiler, error) {
	logger := log.Default().With(slog.String("command", command))

	c := lang.New(
		lang.WithLogger(logger),
		lang.WithMaxDepth(s.MaxDepth),
	)

	for _, def := range s.Define {
		name, src, ok := strings.Cut(def, "=")
		if name = strings.TrimSpace(name); !ok || name == "" {
			return nil, ErrDefine.With(slog.String("define", def))
		}

		if err := c.Define(name, src); err != nil {
			return nil, err
		}

		logger.DebugContext(ctx, "defined", slog.String("name", name), slog.String("expr", src))
	}

	return c, nil
}

// Output holds the flags that select how results are written.
type Output struct {
	Format string `default:"text" enum:"text,json,yaml"                   help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"   help:"Indent width for JSON and YAML output."`
}

func (o Output) write(ctx context.Context, results ...lang.Result) error {
	return lang.WriteResults(ctx, outputFrom(ctx), lang.ParseFormat(o.Format), o.Indent, results...)
}

func (o Output) encode(ctx context.Context, v any) error {
	return lang.Encode(ctx, outputFrom(ctx), lang.ParseFormat(o.Format), o.Indent, v)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// sourceFiles reads the named files in order, each file once, followed by
// stdin if it was named.
type sourceFiles struct {
	io.Reader

	files []*os.File
}

func (s *sourceFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// openSources opens the source files at paths. A path of "-" or an empty
// paths reads stdin. Paths naming a file that was already opened, through a
// symlink or otherwise, are skipped.
func openSources(paths []string) (*sourceFiles, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs     sourceFiles
		readers  []io.Reader
		hasStdin bool
	)

	seen := map[fileKey]struct{}{}

	if info, err := os.Stdin.Stat(); err == nil {
		if key, ok := makeFileKey(info); ok {
			seen[key] = struct{}{}
		}
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		f, ok, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("file", path))
		}

		if ok {
			srcs.files = append(srcs.files, f)
			readers = append(readers, f)
		}
	}

	if hasStdin {
		readers = append(readers, os.Stdin)
	}

	srcs.Reader = io.MultiReader(readers...)

	return &srcs, nil
}

// openUniqueFile opens the file at path unless a file with the same device
// and inode is already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return f, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
