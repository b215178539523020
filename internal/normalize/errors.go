package normalize

import "fmt"

// InputValidationError reports raw input that is fundamentally
// unparsable: not a JSON object at all. Anything parsable, however
// malformed, degrades to a failing ValidationReport instead.
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// BusinessRuleViolationError is returned in strict mode when the
// produced document fails a structural invariant. Outside strict mode
// the same condition is only reported, never raised.
type BusinessRuleViolationError struct {
	Findings int
}

func (e *BusinessRuleViolationError) Error() string {
	return fmt.Sprintf("normalized book violates %d structural invariant(s)", e.Findings)
}
