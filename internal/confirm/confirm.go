// Package confirm asks the user what to do with a Filled request that
// drew postmark warnings.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yourusername/casetracker/internal/models"
)

// ErrBusy is returned when a submission is started while another one is
// still waiting for the user.
var ErrBusy = errors.New("confirm: a choice is already pending")

// State of a Flow.
type State int

const (
	Idle State = iota
	AwaitingUserChoice
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingUserChoice:
		return "awaiting user choice"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Choice is the user's answer to the warning dialog.
type Choice int

const (
	NoChoice Choice = iota
	Fill
	Toss
)

func (c Choice) String() string {
	switch c {
	case Fill:
		return "Fill anyway"
	case Toss:
		return "Toss"
	}
	return "none"
}

// Chooser shows the warnings and blocks until the user picks Fill or Toss.
type Chooser interface {
	Choose(ctx context.Context, messages []string) (Choice, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, messages []string) (Choice, error)

func (f ChooserFunc) Choose(ctx context.Context, messages []string) (Choice, error) {
	return f(ctx, messages)
}

// Flow runs one confirmation at a time.
type Flow struct {
	chooser Chooser

	mu       sync.Mutex
	state    State
	messages []string
	choice   Choice
}

func New(c Chooser) *Flow {
	return &Flow{chooser: c}
}

// State returns the current state and, while awaiting a choice, the
// messages on display.
func (f *Flow) State() (State, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.messages
}

// Choice returns the last resolved choice.
func (f *Flow) Choice() Choice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.choice
}

// Resolve returns the request to submit. Requests that are not Filled, or
// that drew no warnings, come back unchanged without asking. Otherwise the
// chooser is consulted: Toss rewrites the action to Tossed, Fill keeps it.
// A chooser error aborts the submission and returns the flow to Idle.
func (f *Flow) Resolve(ctx context.Context, r models.Request, messages []string) (models.Request, error) {
	if r.Action != models.ActionFilled || len(messages) == 0 {
		return r, nil
	}

	f.mu.Lock()
	if f.state == AwaitingUserChoice {
		f.mu.Unlock()
		return r, ErrBusy
	}
	f.state, f.messages, f.choice = AwaitingUserChoice, messages, NoChoice
	f.mu.Unlock()

	choice, err := f.chooser.Choose(ctx, messages)
	if err == nil && choice != Fill && choice != Toss {
		err = fmt.Errorf("confirm: invalid choice %v", choice)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = nil
	if err != nil {
		f.state = Idle
		return r, err
	}
	f.state, f.choice = Resolved, choice

	if choice == Toss {
		r.Action = models.ActionTossed
	}
	return r, nil
}
