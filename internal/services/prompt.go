package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/jewa/internal/models"
)

// PromptConfirmer asks on a terminal. Anything other than y or yes is a no.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(ctx context.Context, visitor models.VisitorEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	name := visitor.Name
	if name == "" {
		name = "visitor " + visitor.ID.String()
	}
	if _, err := fmt.Fprintf(p.Out, "Revoke OTP for %s? [y/N] ", name); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
