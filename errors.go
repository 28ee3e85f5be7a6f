package invest

import "fmt"

// InsufficientPositionError reports a sell that exceeds the open
// quantity tracked for the instrument. It is a data-integrity failure:
// the matcher never produces a negative position.
type InsufficientPositionError struct {
	Instrument    string
	TransactionID string
	Requested     Quantity
	Unfilled      Quantity
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position on %q: sell %q requests %s but %s cannot be matched to any open lot",
		e.Instrument, e.TransactionID, e.Requested, e.Unfilled)
}

// MissingTermsError reports that the contractual fields required to
// project cashflows are absent.
type MissingTermsError struct {
	Instrument string
	Field      string
}

func (e *MissingTermsError) Error() string {
	return fmt.Sprintf("cannot project cashflows for %q: missing %s", e.Instrument, e.Field)
}

// ScheduleOverflowError reports that the payment-date walk exceeded
// its iteration ceiling, which indicates malformed terms.
type ScheduleOverflowError struct {
	Instrument string
	Periods    int
}

func (e *ScheduleOverflowError) Error() string {
	return fmt.Sprintf("schedule for %q exceeds %d periods: terms look malformed", e.Instrument, e.Periods)
}
