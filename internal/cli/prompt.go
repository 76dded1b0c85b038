package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errConfirmationRequired is returned when a destructive command cannot ask
// for confirmation.
var errConfirmationRequired = errors.New("confirmation required: rerun with --yes")

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes").
	Accepted bool
	// Cancelled is true if reading the answer failed.
	Cancelled bool
}

// prompter reads answers from a command's input. Prompts go to stderr so
// stdout stays machine readable.
type prompter struct {
	out   io.Writer
	in    io.Reader
	tty   *os.File
	lines *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	p := &prompter{out: cmd.ErrOrStderr(), in: cmd.InOrStdin()}
	if f, ok := p.in.(*os.File); ok && isTerminal(f) {
		p.tty = f
	}
	p.lines = bufio.NewReader(p.in)
	return p
}

// Interactive reports whether input comes from a terminal.
func (p *prompter) Interactive() bool {
	return p.tty != nil
}

// Line prints label and reads one trimmed line. EOF after a partial line
// returns that line.
func (p *prompter) Line(label string) (string, error) {
	if label != "" {
		_, _ = fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.lines.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads a value without echo on a terminal, or a plain line
// otherwise.
func (p *prompter) Secret(label string) (string, error) {
	if p.tty == nil {
		return p.Line(label)
	}
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(int(p.tty.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

// Confirm asks a yes/no question. The default is No: empty input, EOF and
// anything other than "y" or "yes" decline.
func (p *prompter) Confirm(question string) PromptResult {
	_, _ = fmt.Fprintf(p.out, "%s [y/N] ", question)

	input, err := p.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return PromptResult{Cancelled: true}
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// confirmAction asks question unless yes is set. Input that is the
// process's non-terminal stdin cannot be asked.
func confirmAction(cmd *cobra.Command, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	p := newPrompter(cmd)
	if f, ok := p.in.(*os.File); ok && !p.Interactive() && f == os.Stdin {
		return false, errConfirmationRequired
	}
	res := p.Confirm(question)
	if !res.Accepted {
		cmd.Println("Dibatalkan.")
	}
	return res.Accepted, nil
}
