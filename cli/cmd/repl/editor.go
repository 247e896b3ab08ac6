package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
)

const defaultEditor = "vi"

// editVarsCommand implements [tea.ExecCommand] for the variable
// edit-run-retry loop. It writes the global variables as assignments to a
// temp file, opens the user's editor, and runs the result. On error the user
// is prompted to re-edit; declining exits the program.
type editVarsCommand struct {
	compiler *lang.Compiler
	ctxFunc  func() context.Context
	logger   log.Logger
	results  []lang.Result
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editVarsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editVarsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editVarsCommand) SetStderr(w io.Writer) { c.stderr = w }

// assignments renders the global variables as one assignment per line.
func assignments(c *lang.Compiler) string {
	var b strings.Builder

	b.WriteString("// Each line is a statement; save and quit to run them.\n")

	for name, v := range c.Vars() {
		fmt.Fprintf(&b, "$%s: %s;\n", name, v)
	}

	return b.String()
}

// Run executes the edit-run-retry loop. It returns [ErrEditDeclined] if the
// user declines to re-edit after an error.
func (c *editVarsCommand) Run() error {
	ctx := c.ctxFunc()
	content := assignments(c.compiler)

	f, err := os.CreateTemp(os.TempDir(), "scss-repl-*.scss")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// An emptied file cancels the edit.
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		var runErr error

		c.results = c.results[:0]

		for r, err := range c.compiler.Run(ctx, strings.NewReader(string(data))) {
			if err != nil {
				runErr = err

				break
			}

			c.results = append(c.results, r)
		}

		c.logger.TraceContext(
			ctx,
			"editor run attempt",
			slog.Int("content_length", len(data)),
			slog.Int("statements", len(c.results)),
			slog.Bool("success", runErr == nil),
		)

		if runErr == nil {
			return nil
		}

		fmt.Fprintf(c.stderr, "\nError: %s\n", runErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
