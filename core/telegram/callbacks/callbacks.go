// Package callbacks decodes telebot callback data into the registry key
// and its payload.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits telebot's \f<unique>|<payload> encoding into its parts.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}

// Key returns the callback key for the current update.
func Key(c tele.Context) string {
	key, _ := Parse(c.Callback())
	return key
}

// Payload returns the callback payload (after '|') for the current update.
func Payload(c tele.Context) string {
	_, payload := Parse(c.Callback())
	return strings.TrimSpace(payload)
}
