package ops

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a destructive command may proceed.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed returns a Confirmer that answers ok to every prompt.
// Surfaces that carry an explicit yes flag (--yes, confirm:true) use it.
func Confirmed(ok bool) Confirmer {
	return ConfirmFunc(func(string) bool { return ok })
}

// PromptConfirmer asks on Out and reads a y/yes answer from In.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints prompt followed by " [y/N]: " and reads one line.
func (p PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
