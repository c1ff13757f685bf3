package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Source document errors
	ErrSourceAbsent     = fmt.Errorf("database file not found")
	ErrMalformedSource  = fmt.Errorf("database file is not valid JSON")
	ErrInvalidFormat    = fmt.Errorf("invalid database format")
	ErrReadFailed       = fmt.Errorf("failed to read database file")
	ErrRetriesExhausted = fmt.Errorf("all read attempts failed")

	// Record errors
	ErrMissingSourceURL = fmt.Errorf("missing youtube_url")
	ErrMissingTitle     = fmt.Errorf("missing song title")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
