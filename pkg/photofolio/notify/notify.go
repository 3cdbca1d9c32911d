// Package notify delivers contact-form messages. Message transport is a
// black box behind the photofolio.Notifier interface; this package ships an
// SMTP relay implementation and a noop for deployments without email.
package notify

import (
	"context"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// Noop discards messages. Used in tests and deployments without a relay.
type Noop struct{}

// NewNoop creates a Notifier that drops every message.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) ContactMessage(ctx context.Context, msg photofolio.ContactMessage) error {
	return nil
}
