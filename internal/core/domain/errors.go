package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownSetting indicates a settings key that autoscore does not recognise.
	ErrUnknownSetting = errors.New("unknown setting")

	// Repository Errors.

	// ErrCloneFailed indicates the submission repository could not be cloned.
	ErrCloneFailed = errors.New("clone failed")

	// ErrCheckoutFailed indicates a branch could not be checked out.
	ErrCheckoutFailed = errors.New("checkout failed")

	// ErrBranchNotFound indicates no branch matched the expected lesson branch.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrHostUnavailable indicates the repository host could not answer,
	// e.g. when rate limited or failing.
	ErrHostUnavailable = errors.New("repository host unavailable")
)
