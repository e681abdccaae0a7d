package menuopts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("menuopts: validation failed")
	ErrNotFound            = errors.New("menuopts: option not found")
	ErrTypeMismatch        = errors.New("menuopts: value type mismatch")
	ErrValueUnavailable    = errors.New("menuopts: value unavailable")
	ErrInternalConsistency = errors.New("menuopts: internal consistency violated")
	ErrNoEvaluator         = errors.New("menuopts: evaluator not configured")
)

// ValidationError reports a malformed node or option passed to the service
// or a builder.
type ValidationError struct {
	Subject string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return fmt.Sprintf("menuopts: %s %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("menuopts: %s: %s %s", e.Subject, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a lookup for an option that is not registered.
type NotFoundError struct {
	CustomID  string
	NumericID int32
	ByNumeric bool
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.ByNumeric {
		return fmt.Sprintf("menuopts: option with id %d not found", e.NumericID)
	}
	return fmt.Sprintf("menuopts: option with custom id %q not found", e.CustomID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TypeMismatchError reports a typed read against an option that returns a
// different value type.
type TypeMismatchError struct {
	CustomID string
	Kind     Kind
	Want     ValueType
	Have     ValueType
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("menuopts: %s %q returns %s, not %s", e.Kind, e.CustomID, e.Have, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ValueUnavailableError reports that the player has no usable live value
// for the option.
type ValueUnavailableError struct {
	CustomID  string
	NumericID int32
	PlayerID  string
	Reason    string
}

func (e *ValueUnavailableError) Error() string {
	if e == nil {
		return "<nil>"
	}
	reason := e.Reason
	if reason == "" {
		reason = "no value reported"
	}
	return fmt.Sprintf("menuopts: option %q (id %d) for player %q: %s", e.CustomID, e.NumericID, e.PlayerID, reason)
}

func (e *ValueUnavailableError) Unwrap() error { return ErrValueUnavailable }

// InternalConsistencyError marks a defect: an option whose returnable type
// matches the read but whose kind has no extraction path, or a live value
// of the wrong kind.
type InternalConsistencyError struct {
	CustomID string
	Kind     Kind
	Detail   string
}

func (e *InternalConsistencyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("menuopts: internal consistency: %s %q: %s", e.Kind, e.CustomID, e.Detail)
}

func (e *InternalConsistencyError) Unwrap() error { return ErrInternalConsistency }

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Player string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("menuopts: %s evaluator %s player=%s: %v", e.Engine, describeExpression(e.Expr), e.Player, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "menuopts:") {
		return err
	}
	return fmt.Errorf("menuopts: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, player string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Player == "" {
			evalErr.Player = player
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Player: player,
		Err:    err,
	}
}
