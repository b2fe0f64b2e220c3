// ABOUTME: Typed validation errors for the scoring engine
// ABOUTME: Distinguishes malformed deal data from bad forecast parameters
package scoring

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidDealError reports a deal that cannot be scored because its data is
// malformed or out of range. Bad input is a caller bug, never defaulted away.
type InvalidDealError struct {
	DealID uuid.UUID
	Field  string
	Reason string
}

func (e *InvalidDealError) Error() string {
	return fmt.Sprintf("invalid deal %s: %s %s", e.DealID, e.Field, e.Reason)
}

// InvalidParameterError reports an unrecognized forecast period or method.
type InvalidParameterError struct {
	Param string
	Value string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Param, e.Value)
}
