package apperror

import "errors"

var (
	ErrOutOfRange        = errors.New("column is out of range")
	ErrColumnFull        = errors.New("column is full")
	ErrNotAnInteger      = errors.New("column is not an integer")
	ErrMalformedResponse = errors.New("response could not be parsed into a column")

	ErrAdapterUnavailable = errors.New("player adapter is unavailable")

	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchFinished   = errors.New("match is already finished")
	ErrUnknownModel    = errors.New("model is not in the allow-list")
	ErrInconsistency   = errors.New("validator and board disagree on legality")
	ErrScriptExhausted = errors.New("scripted player has no moves left")
)
