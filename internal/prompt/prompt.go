// Package prompt asks a user a yes/no question and waits a bounded time for
// the answer. Barter offers and delete-all confirmations go through it.
package prompt

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
)

// Question is what the user is asked.
type Question struct {
	// Actor is the only user allowed to answer.
	Actor        string
	Text         string
	AcceptLabel  string
	DeclineLabel string
	Timeout      time.Duration
}

// Prompter delivers a question and blocks until it is answered or ctx ends.
type Prompter interface {
	Ask(ctx context.Context, q Question) (domain.Choice, error)
}

// Func adapts a plain function to Prompter
type Func func(ctx context.Context, q Question) (domain.Choice, error)

// Ask implements Prompter
func (f Func) Ask(ctx context.Context, q Question) (domain.Choice, error) {
	return f(ctx, q)
}

// Fixed returns a prompter that answers every question with choice
func Fixed(choice domain.Choice) Prompter {
	return Func(func(context.Context, Question) (domain.Choice, error) {
		return choice, nil
	})
}

// Ask puts q to p and applies its timeout. It never fails: an expired wait,
// a nil prompter and a prompter error all count as domain.ChoiceTimedOut.
func Ask(ctx context.Context, p Prompter, q Question) domain.Choice {
	if p == nil {
		return domain.ChoiceTimedOut
	}
	if q.AcceptLabel == "" {
		q.AcceptLabel = DefaultAcceptLabel
	}
	if q.DeclineLabel == "" {
		q.DeclineLabel = DefaultDeclineLabel
	}

	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	choice, err := p.Ask(ctx, q)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			logger.FromContext(ctx).Warn(LogMsgPromptFailed, "actor", q.Actor, "error", err)
		}
		return domain.ChoiceTimedOut
	}
	if ctx.Err() != nil {
		// Answers arriving after the deadline do not count.
		return domain.ChoiceTimedOut
	}
	return choice
}
