// Package session keeps per-user conversational state: language,
// cart contents and the checkout draft.
package session

import "github.com/sushi-aurum/orderbot/internal/domain"

// Stage enumerates the checkout conversation states.
type Stage int

const (
	// StageIdle means no checkout is in progress.
	StageIdle Stage = iota
	// StageDeliveryChoice awaits the delivery/pickup decision.
	StageDeliveryChoice
	// StageAddress awaits the delivery address.
	StageAddress
	// StagePhone awaits the contact phone number.
	StagePhone
	// StageComment awaits the optional order comment.
	StageComment
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageDeliveryChoice:
		return "delivery_choice"
	case StageAddress:
		return "address"
	case StagePhone:
		return "phone"
	case StageComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Draft accumulates checkout answers until the order is finalized.
type Draft struct {
	Stage   Stage
	Mode    domain.DeliveryMode
	Address string
	Phone   string
	Comment string
}

// Session is the per-user state. Cart maps item id to quantity.
type Session struct {
	UserID int64
	Lang   string
	Cart   map[string]int
	Draft  Draft
}

// InCheckout reports whether a checkout conversation is active.
func (s *Session) InCheckout() bool {
	return s.Draft.Stage != StageIdle
}

// ResetDraft drops any checkout progress.
func (s *Session) ResetDraft() {
	s.Draft = Draft{Stage: StageIdle}
}
