package executor

import "errors"

var (
	// Config validation errors
	ErrStoreRequired       = errors.New("store is required")
	ErrToolboxRequired     = errors.New("toolbox is required")
	ErrModelClientRequired = errors.New("model client is required")
)

// DegradedResponse is returned to the user when the model keeps asking for
// tools after the round limit is spent.
const DegradedResponse = "Sorry, I couldn't finish that request. Please try again or rephrase it."
