package auth

import "errors"

var (
	// ErrNetwork classifies failures where the server could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrRejected classifies failures the server answered with success=false.
	ErrRejected = errors.New("request rejected")
)

// Failure is the error returned by Manager operations. Reason is meant for
// the user; Kind is ErrNetwork or ErrRejected.
type Failure struct {
	Kind   error
	Reason string
}

func (f *Failure) Error() string { return f.Reason }

func (f *Failure) Unwrap() error { return f.Kind }

func networkFailure() *Failure {
	return &Failure{Kind: ErrNetwork, Reason: "Network error"}
}

func rejected(reason, fallback string) *Failure {
	if reason == "" {
		reason = fallback
	}
	return &Failure{Kind: ErrRejected, Reason: reason}
}
