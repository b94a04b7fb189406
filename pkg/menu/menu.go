// Package menu implements the run selection menu. The option the driver is
// most likely to want next, the run after the last one, is always first.
package menu

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Token is one menu option.
type Token int

const (
	Run1 Token = iota
	Run2
	Run3
	Run4
	Run5
	Run6
	Run7
	// Idle runs the motor cleanup instead of a run.
	Idle
)

// Order is the fixed option ordering.
var Order = []Token{Run1, Run2, Run3, Run4, Run5, Run6, Run7, Idle}

func (t Token) String() string {
	switch {
	case t == Idle:
		return "C"
	case t >= Run1 && t <= Run7:
		return fmt.Sprintf("%d", t.Run())
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Run returns the run number for a run token, or 0 for Idle.
func (t Token) Run() int {
	if t >= Run1 && t <= Run7 {
		return int(t-Run1) + 1
	}
	return 0
}

// ParseToken converts a menu label back to a token.
func ParseToken(s string) (Token, error) {
	for _, t := range Order {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown menu option %q", s)
}

// Rotation returns Order starting right after last and ending with last.
func Rotation(last Token) []Token {
	n := len(Order)
	start := (int(last) + 1) % n
	out := make([]Token, n)
	for i := range out {
		out[i] = Order[(start+i)%n]
	}
	return out
}

// Prompter asks the driver to pick one of the options. It blocks until a
// choice is made or ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, options []Token) (Token, error)
}

// Dispatcher carries out a menu choice.
type Dispatcher interface {
	Run(ctx context.Context, number int) error
	Cleanup(ctx context.Context) error
}

// Navigator remembers the last run chosen and rotates the menu around it.
type Navigator struct {
	prompt Prompter
	last   Token
	log    logrus.FieldLogger
}

// NewNavigator creates a navigator whose first menu starts at run 1.
func NewNavigator(p Prompter, log logrus.FieldLogger) *Navigator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Navigator{
		prompt: p,
		last:   Idle,
		log:    log.WithField("component", "menu"),
	}
}

// Last returns the last run selected, or Idle before any run.
func (n *Navigator) Last() Token {
	return n.last
}

// Options returns the menu the next Step will present.
func (n *Navigator) Options() []Token {
	return Rotation(n.last)
}

// Step presents the menu once and dispatches the choice. A run becomes the
// last selection before it is dispatched, so a failed run still moves the
// menu on. Choosing Idle cleans the motors and leaves the last run unchanged.
func (n *Navigator) Step(ctx context.Context, d Dispatcher) (Token, error) {
	choice, err := n.prompt.Prompt(ctx, n.Options())
	if err != nil {
		return 0, errors.Wrap(err, "menu prompt")
	}
	n.log.WithField("choice", choice).Debug("selected")

	if choice == Idle {
		return choice, d.Cleanup(ctx)
	}
	if choice.Run() == 0 {
		return choice, errors.Errorf("invalid menu choice %s", choice)
	}
	n.last = choice
	return choice, d.Run(ctx, choice.Run())
}

// Serve presents the menu until ctx is done or a step fails.
func (n *Navigator) Serve(ctx context.Context, d Dispatcher) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.Step(ctx, d); err != nil {
			return err
		}
	}
}
