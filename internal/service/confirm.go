package service

import "context"

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Answer is a fixed confirmation answer, typically parsed from a submitted form.
type Answer bool

// Confirm implements Confirmer.
func (a Answer) Confirm(context.Context, string) bool {
	return bool(a)
}
