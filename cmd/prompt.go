package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vnda/vnda-cli/internal/ports"
	"golang.org/x/term"
)

var errNoInput = errors.New("no input available")

// terminalPrompter asks on stderr and reads stdin. Secret answers are read
// without echo when stdin is a terminal.
type terminalPrompter struct {
	app *app
}

var _ ports.Prompter = (*terminalPrompter)(nil)

func (p *terminalPrompter) Prompt(ctx context.Context, label string, secret bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	errOut := p.app.root.ErrOrStderr()
	if _, err := fmt.Fprintf(errOut, "%s: ", label); err != nil {
		return "", err
	}

	if file, ok := p.app.root.InOrStdin().(*os.File); ok && secret && term.IsTerminal(int(file.Fd())) {
		answer, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(errOut)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return string(answer), nil
	}

	line, err := p.app.stdin().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), errNoInput)
		}
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
