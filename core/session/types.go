// Package session provides the per-user wizard state machine for the
// marketplace engine. Sessions are transient: completing, cancelling or
// abandoning a wizard past the idle timeout discards them.
package session

import (
	"github.com/AigentLabsFramework/aigent-framework/core/market"
)

// WizardKind identifies which multi-step conversation a user is in.
type WizardKind int

const (
	// WizardNone indicates there is no active conversation with the user.
	WizardNone WizardKind = iota
	// WizardListing is the rental listing wizard (category, type, location,
	// name, price, deposit, description, links).
	WizardListing
	// WizardSale is the marketplace sell wizard (single combined input).
	WizardSale
	// WizardSearch is the search wizard.
	WizardSearch
	// WizardAdmin covers the single-step admin prompts.
	WizardAdmin
)

func (k WizardKind) String() string {
	switch k {
	case WizardListing:
		return "listing"
	case WizardSale:
		return "sale"
	case WizardSearch:
		return "search"
	case WizardAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Step enumerates every wizard position. Each wizard walks its own subset.
type Step int

const (
	StepNone Step = iota

	// Listing wizard.
	StepSelectType
	StepEnterLocation
	StepEnterName
	StepEnterPrice
	StepEnterDeposit
	StepEnterDescription
	StepEnterLinks

	// Sale wizard.
	StepEnterDetails

	// Search wizard.
	StepEnterKeyword
	StepEnterSearchLocation

	// Admin prompts.
	StepAdminCategory
	StepAdminFee
	StepAdminWallet
)

func (s Step) String() string {
	switch s {
	case StepSelectType:
		return "select_type"
	case StepEnterLocation:
		return "enter_location"
	case StepEnterName:
		return "enter_name"
	case StepEnterPrice:
		return "enter_price"
	case StepEnterDeposit:
		return "enter_deposit"
	case StepEnterDescription:
		return "enter_description"
	case StepEnterLinks:
		return "enter_links"
	case StepEnterDetails:
		return "enter_details"
	case StepEnterKeyword:
		return "enter_keyword"
	case StepEnterSearchLocation:
		return "enter_search_location"
	case StepAdminCategory:
		return "admin_category"
	case StepAdminFee:
		return "admin_fee"
	case StepAdminWallet:
		return "admin_wallet"
	default:
		return "none"
	}
}

// Session is one user's in-flight wizard data. The engine mutates it only
// inside Manager.Do, which serializes transitions per user.
type Session struct {
	Wizard  WizardKind
	Step    Step
	Draft   market.ListingSpec
	Keyword string
}

// Active reports whether a wizard is in progress.
func (s *Session) Active() bool {
	return s.Wizard != WizardNone
}

// Begin starts a wizard at the given step, silently discarding any
// unfinished one.
func (s *Session) Begin(kind WizardKind, step Step) {
	s.Reset()
	s.Wizard = kind
	s.Step = step
}

// Advance moves the active wizard to the next step.
func (s *Session) Advance(step Step) {
	s.Step = step
}

// Reset returns the session to idle and clears wizard data.
func (s *Session) Reset() {
	*s = Session{}
}
