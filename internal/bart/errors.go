package bart

import "errors"

var (
	// ErrRoundOver is returned for an action on a popped or cashed-out round.
	ErrRoundOver = errors.New("round is already over")
	// ErrRoundInProgress is returned when appending an unfinished round to a Ledger.
	ErrRoundInProgress = errors.New("round is still in progress")
	// ErrTrialOrder is returned when rounds reach a Ledger out of order.
	ErrTrialOrder = errors.New("round recorded out of order")
	// ErrTaskDone is returned for an action after the last round finished.
	ErrTaskDone = errors.New("all rounds are finished")
	// ErrSourceExhausted is returned by an ActionSource with nothing left to give.
	ErrSourceExhausted = errors.New("action source exhausted")
	// ErrUnknownAction is returned when text or a value names no Action.
	ErrUnknownAction = errors.New("unknown action")
)
