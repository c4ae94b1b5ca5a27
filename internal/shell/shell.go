// Package shell runs line-oriented commands against a core.Filetree.
package shell

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"treefs/internal/core"

	"github.com/jmgilman/go/errors"
)

// ErrExit is returned by Exec when the exit command is given.
var ErrExit = stderrors.New("exit")

// Shell dispatches one command line at a time. Output and error messages go to
// the same writer.
type Shell struct {
	ft  *core.Filetree
	out io.Writer

	// ShowPrompt prints the cursor path before each line read by Run.
	ShowPrompt bool
}

func New(ft *core.Filetree, out io.Writer) *Shell {
	return &Shell{ft: ft, out: out}
}

// Exec runs a single command line. Blank lines do nothing.
func (s *Shell) Exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	slog.Debug("shell command", "command", args[0], "args", args[1:], "cwd", s.ft.CurrentPath())

	cmd := s.rootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// Run reads commands from r until EOF or exit. Command errors are printed and
// the loop continues; only read errors are returned.
func (s *Shell) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		if s.ShowPrompt {
			fmt.Fprintf(s.out, "%s> ", s.ft.CurrentPath())
		}
		if !scanner.Scan() {
			break
		}

		err := s.Exec(scanner.Text())
		if stderrors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %s\n", Describe(err))
		}
	}
	return scanner.Err()
}

// Describe renders err for a human: the validation cause when there is one,
// otherwise the error message without its code prefix.
func Describe(err error) string {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	var platformErr errors.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Message()
	}
	return err.Error()
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
