package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/yourusername/casetracker/internal/confirm"
)

// ErrNoAnswer is returned when the input ends before a choice is made.
var ErrNoAnswer = errors.New("no choice made")

// DialogChooser asks through an interactive select prompt. It needs a
// terminal.
type DialogChooser struct{}

func (DialogChooser) Choose(ctx context.Context, messages []string) (confirm.Choice, error) {
	choice := confirm.Toss
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("This request may be too early").
				Description(strings.Join(messages, "\n\n")),
			huh.NewSelect[confirm.Choice]().
				Title("Record it as").
				Options(
					huh.NewOption(confirm.Toss.String(), confirm.Toss),
					huh.NewOption(confirm.Fill.String(), confirm.Fill),
				).
				Value(&choice),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return confirm.NoChoice, ErrNoAnswer
		}
		return confirm.NoChoice, err
	}
	return choice, nil
}

// LineChooser asks on plain line-based input, for pipes and scripts.
type LineChooser struct {
	In  io.Reader
	Out io.Writer
}

func (l LineChooser) Choose(ctx context.Context, messages []string) (confirm.Choice, error) {
	fmt.Fprint(l.Out, Warnings(messages))
	sc := bufio.NewScanner(l.In)
	for {
		if err := ctx.Err(); err != nil {
			return confirm.NoChoice, err
		}
		fmt.Fprint(l.Out, "[t]oss or [f]ill anyway? ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return confirm.NoChoice, err
			}
			return confirm.NoChoice, ErrNoAnswer
		}
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "t", "toss":
			return confirm.Toss, nil
		case "f", "fill", "fill anyway":
			return confirm.Fill, nil
		}
	}
}
