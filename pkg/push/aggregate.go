package push

import "fmt"

// Aggregate reduces per-token outcomes into a DispatchResult. The backend
// must return exactly one outcome per requested token; a count mismatch is a
// delivery failure in its own right, never truncated or padded over.
func Aggregate(requested int, outcomes []DeliveryOutcome) (*DispatchResult, error) {
	if len(outcomes) != requested {
		return nil, &DeliveryError{
			Detail: fmt.Sprintf("backend returned %d outcomes for %d tokens", len(outcomes), requested),
		}
	}

	result := &DispatchResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}
	return result, nil
}
