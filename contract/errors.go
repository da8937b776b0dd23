package contract

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized        = errors.New("not authorized")
	ErrInvalidPhase         = errors.New("invalid phase")
	ErrAlreadyPassed        = errors.New("already passed")
	ErrNoSuchVote           = errors.New("no such vote")
	ErrNoSuchProposal       = errors.New("no such proposal")
	ErrNothingToLiquidate   = errors.New("nothing to liquidate")
	ErrExternalActionFailed = errors.New("external action failed")

	ErrNotInitialized     = errors.New("contract not initialized")
	ErrAlreadyInitialized = errors.New("contract already initialized")
	ErrInvalidOwners      = errors.New("invalid owners")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownAction      = errors.New("unknown action")
)

func errInvalidPayload(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidPayload}, args...)...)
}

func errInvalidPhase(op string, phase Phase) error {
	return fmt.Errorf("%w: %s not allowed while %s", ErrInvalidPhase, op, phase)
}
