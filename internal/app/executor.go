package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/questboard/internal/platform/logging"
)

// Player actions run in three guarded steps:
//
//  1. VALIDATE - apply the game rules to freshly fetched state. Nothing has
//     been sent to the backend yet, so a failure here is a clean rejection.
//  2. PERFORM  - issue the single backend mutation. It is never retried.
//  3. VERIFY   - check the record the backend returned against the request
//     and turn it into the caller's result.

// ExecutionStep names the step an action failed in.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
)

// ExecutionError wraps a failure with the step it happened in.
type ExecutionError struct {
	Action string
	Step   ExecutionStep
	Cause  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Action, e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Action describes one player action. S is the state gathered during
// validation and handed to the later steps; P is what the backend returned;
// O is the verified result.
type Action[S, P, O any] struct {
	// Name identifies the action in logs and errors.
	Name string

	// Validate fetches what the rules need and checks them.
	Validate func(ctx context.Context) (S, error)

	// Perform sends the mutation.
	Perform func(ctx context.Context, state S) (P, error)

	// Verify confirms the backend did what was asked. A nil Verify accepts
	// the performed value when P and O are the same type.
	Verify func(ctx context.Context, state S, performed P) (O, error)
}

// Executor runs actions with step-level logging.
type Executor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewExecutor creates an executor. A nil logger uses slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger, now: time.Now}
}

// Execute runs a through validate, perform and verify, stopping at the
// first failing step.
func Execute[S, P, O any](ctx context.Context, exec *Executor, a Action[S, P, O]) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("action", a.Name))
	start := exec.now()

	fail := func(step ExecutionStep, err error) (O, error) {
		level := slog.LevelError
		if step == StepValidate {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "action failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return zero, &ExecutionError{Action: a.Name, Step: step, Cause: err}
	}

	var state S
	if a.Validate != nil {
		logger.DebugContext(ctx, "validating")

		s, err := a.Validate(ctx)
		if err != nil {
			return fail(StepValidate, err)
		}

		state = s
	}

	logger.DebugContext(ctx, "performing")

	performed, err := a.Perform(ctx, state)
	if err != nil {
		return fail(StepPerform, err)
	}

	var result O
	if a.Verify != nil {
		result, err = a.Verify(ctx, state, performed)
		if err != nil {
			return fail(StepVerify, err)
		}
	} else if r, ok := any(performed).(O); ok {
		result = r
	}

	logger.InfoContext(ctx, "action completed",
		slog.Duration("duration", exec.now().Sub(start)),
	)

	return result, nil
}

// FailedStep reports the step err failed in, if it came from Execute.
func FailedStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
