package analytics

import "errors"

// ErrInvalidArgument marks input the engine cannot process: an unrecognized
// series mode or timeframe, or a non-positive amount slipping past upstream
// validation. Callers decide whether to retry with corrected input; nothing
// is retried internally.
var ErrInvalidArgument = errors.New("invalid argument")
