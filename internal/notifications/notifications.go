// Package notifications delivers account notifications to users.
//
// There is no SMTP integration, messages are written to the log. The
// Sender interface keeps the delivery mechanism swappable.
package notifications

import (
	"github.com/rs/zerolog/log"
)

// Sender delivers a notification to the address of a user. Delivery is
// best effort, callers do not wait for or depend on the result.
type Sender interface {
	PasswordReset(email, token string)
}

// LogSender writes notifications to the application log.
type LogSender struct{}

// PasswordReset logs the reset token for the given address.
//
// The token only appears in the log, never in an API response, so the
// reset flow stays inert until a real delivery channel is configured.
func (LogSender) PasswordReset(email, token string) {
	log.Info().
		Str("email", email).
		Str("token", token).
		Msg("password reset requested")
}
