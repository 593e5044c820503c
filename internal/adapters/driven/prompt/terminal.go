// Package prompt implements the interactive terminal prompter. Secrets are
// read without echo.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/ports/driven"
)

// Ensure Terminal implements the interface.
var _ driven.Prompter = (*Terminal)(nil)

// Terminal prompts on stdin/stderr.
type Terminal struct {
	reader *bufio.Reader
}

// NewTerminal creates a terminal prompter.
func NewTerminal() *Terminal {
	return &Terminal{reader: bufio.NewReader(os.Stdin)}
}

// PromptURL asks for the instance URL.
func (t *Terminal) PromptURL() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", domain.ErrPromptUnavailable
	}
	fmt.Fprint(os.Stderr, "RSC instance URL (e.g. https://account.my.rubrik.com): ")
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptCredential asks for a client ID and secret. The secret is read
// without echo.
func (t *Terminal) PromptCredential() (string, string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", domain.ErrPromptUnavailable
	}
	fmt.Fprint(os.Stderr, "Service account client ID: ")
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	clientID := strings.TrimSpace(line)

	fmt.Fprint(os.Stderr, "Service account client secret: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", err
	}
	return clientID, strings.TrimSpace(string(secret)), nil
}
