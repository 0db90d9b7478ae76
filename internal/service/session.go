package service

import "time"

// Session identifies who a controller acts for.
type Session struct {
	Token string
	ID    string
	// Actor is the admin e-mail when known, used for activity records.
	Actor string
}

// Confirmer asks the admin to confirm a destructive action.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

type clock func() time.Time
