// Package action carries the outcome of a form mutation: either a redirect
// after a successful write, or a state the form redisplays inline.
package action

import (
	"github.com/nextdash/dashboard-backend/internal/validation"
)

// Kind classifies a Result and picks the HTTP status it is rendered with.
type Kind int

const (
	// KindRedirect: the write succeeded, caches were invalidated, navigate away.
	KindRedirect Kind = iota
	// KindInvalid: one or more fields failed validation; nothing was written.
	KindInvalid
	// KindFailed: the store rejected the write.
	KindFailed
	// KindNotFound: the target row does not exist.
	KindNotFound
	// KindDone: the write succeeded and the caller stays where it is.
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindInvalid:
		return "invalid"
	case KindFailed:
		return "failed"
	case KindNotFound:
		return "not_found"
	case KindDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is what the form layer renders: per-field messages plus a summary.
type State struct {
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Result is the outcome of one mutation.
type Result struct {
	Kind     Kind
	Redirect string
	State    State
}

// Redirect reports a committed write; the client navigates to path.
func Redirect(path string) Result {
	return Result{Kind: KindRedirect, Redirect: path}
}

// Done reports a committed write with no navigation.
func Done() Result {
	return Result{Kind: KindDone}
}

// Invalid returns the form state for a rejected submission. errs may be nil
// when only the summary message applies.
func Invalid(errs validation.FieldErrors, message string) Result {
	return Result{Kind: KindInvalid, State: State{Errors: errs, Message: message}}
}

// Failed reports a store error. message is shown to the user and must not
// carry driver detail.
func Failed(message string) Result {
	return Result{Kind: KindFailed, State: State{Message: message}}
}

// NotFound reports that the target row is missing or its id is malformed.
func NotFound(message string) Result {
	return Result{Kind: KindNotFound, State: State{Message: message}}
}
