package entity

// Outcome is the tri-state result of a verification.
type Outcome string

const (
	OutcomeNoSecret Outcome = "no_secret"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeValid    Outcome = "valid"
)

// Message is the user-facing text shown for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeNoSecret:
		return "No secret found, please setup first."
	case OutcomeValid:
		return "Success! Code verified"
	default:
		return "Invalid code"
	}
}

func (o Outcome) String() string {
	return string(o)
}
