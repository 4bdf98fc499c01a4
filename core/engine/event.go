// Package engine implements the platform-agnostic marketplace coordinator.
// A chat adapter delivers normalized inbound events tagged with a user id;
// the engine resolves session state, drives the catalog, config and escrow
// stores, and returns a response the adapter renders however it likes.
package engine

// EventKind tags the shape of an inbound event.
type EventKind int

const (
	// EventCommand is a slash-command style entry point ("start", "admin_control").
	EventCommand EventKind = iota
	// EventButton is a button press carrying an action token.
	EventButton
	// EventText is a free-text reply routed to the active wizard.
	EventText
)

// InboundEvent is one normalized user interaction.
type InboundEvent struct {
	UserID  int64
	Kind    EventKind
	Command string
	Token   string
	Text    string
}

// Choice is one selectable option attached to a response. Token round-trips
// through the adapter and comes back as a button press.
type Choice struct {
	Label string
	Token string
}

// Response is what the adapter renders: text plus an optional ordered choice list.
type Response struct {
	Text    string
	Choices []Choice
}

// Command names accepted at the EventCommand boundary.
const (
	CommandStart        = "start"
	CommandAdminControl = "admin_control"
)
