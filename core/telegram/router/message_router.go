package router

import (
	tele "gopkg.in/telebot.v4"
)

// FSM receives free-text input from users with an interaction in
// progress, for example a checkout waiting for an address.
type FSM interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
}

// Messages routes tele.OnText updates. Text from users with an active
// flow goes to the FSM; everything else goes to the fallback, which
// may be nil.
func Messages(fsm FSM, fallback tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if fsm != nil && sender != nil && fsm.InProgress(sender.ID) {
			return handleWithSummary("text:flow", fsm.HandleText)(c)
		}
		if fallback != nil {
			return handleWithSummary("text:fallback", fallback)(c)
		}
		return nil
	}
}
