package domain

import "fmt"

// State is a sender's position in the conversation flow. The zero value is
// StateNone, the idle menu level.
type State int

const (
	// StateNone is the idle state; every completed flow returns here.
	StateNone State = iota
	// StateSupportOpen awaits a free-text issue description.
	StateSupportOpen
	// StateAwaitingTrialContact awaits an email or phone number.
	StateAwaitingTrialContact
	// StateAwaitingPackageChoice awaits a plan keyword after offers were shown.
	StateAwaitingPackageChoice
)

const (
	stateNoneTag          = "none"
	stateSupportTag       = "support_open"
	stateTrialContactTag  = "awaiting_trial_contact"
	statePackageChoiceTag = "awaiting_package_choice"
)

// String returns the storage tag for the state.
func (s State) String() string {
	switch s {
	case StateSupportOpen:
		return stateSupportTag
	case StateAwaitingTrialContact:
		return stateTrialContactTag
	case StateAwaitingPackageChoice:
		return statePackageChoiceTag
	default:
		return stateNoneTag
	}
}

// ParseState maps a storage tag back to a State.
func ParseState(tag string) (State, error) {
	switch tag {
	case stateNoneTag, "":
		return StateNone, nil
	case stateSupportTag:
		return StateSupportOpen, nil
	case stateTrialContactTag:
		return StateAwaitingTrialContact, nil
	case statePackageChoiceTag:
		return StateAwaitingPackageChoice, nil
	default:
		return StateNone, fmt.Errorf("unknown conversation state %q", tag)
	}
}
