package async

import "errors"

var (
	ErrNotReady  = errors.New("async: future not complete")
	ErrNoFutures = errors.New("async: WaitAny called with no futures")
)
