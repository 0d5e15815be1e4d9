package checkout

import "errors"

// SessionState tracks a single checkout pass:
// collecting_images -> checkout -> confirmed. The flow is single-pass with
// no cancellation; a failed confirm leaves the session in checkout so the
// caller can retry with corrected input.
type SessionState string

const (
	StateCollectingImages SessionState = "collecting_images"
	StateCheckout         SessionState = "checkout"
	StateConfirmed        SessionState = "confirmed"
)

// ErrSessionState is returned when an operation is attempted in a state
// that does not allow it.
var ErrSessionState = errors.New("checkout: operation not allowed in current state")

// ErrNoItems is returned when proceeding to checkout without any item.
var ErrNoItems = errors.New("checkout: at least one item is required")

// Session holds the priced line items of one checkout pass.
type Session struct {
	state SessionState
	items []pricedItem
}

// NewSession starts a session in the collecting state.
func NewSession() *Session {
	return &Session{state: StateCollectingImages}
}

// State returns the session's current state.
func (s *Session) State() SessionState { return s.state }

func (s *Session) addItem(it pricedItem) error {
	if s.state != StateCollectingImages {
		return ErrSessionState
	}
	s.items = append(s.items, it)
	return nil
}

// proceed moves the session to checkout once at least one valid item exists.
func (s *Session) proceed() error {
	if s.state != StateCollectingImages {
		return ErrSessionState
	}
	if len(s.items) == 0 {
		return ErrNoItems
	}
	s.state = StateCheckout
	return nil
}

func (s *Session) confirmed() {
	s.state = StateConfirmed
}
