package sync

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/providers"
)

// TerminalPrompter asks for confirmation on a line-oriented terminal.
// Only "y" or "yes" (any case) confirms; anything else declines.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer

	amount *color.Color
	prompt *color.Color
}

// NewTerminalPrompter reads answers from in and writes prompts to out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     bufio.NewReader(in),
		out:    out,
		amount: color.New(color.FgYellow),
		prompt: color.New(color.Bold),
	}
}

// Confirm shows the transaction and waits for an answer
func (p *TerminalPrompter) Confirm(txn providers.Transaction) (bool, error) {
	_, err := fmt.Fprintf(p.out, "%s: %s @ [%s] %s  %s ",
		txn.Date.Format("2006-01-02"),
		p.amount.Sprint(txn.Amount.StringFixed(2)),
		txn.AccountName,
		txn.Description,
		p.prompt.Sprint("-- Sync? [y/N]"),
	)
	if err != nil {
		return false, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	return ParseAnswer(line), nil
}

// ParseAnswer reports whether line is an affirmative answer
func ParseAnswer(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
