// Package mailtest provides an in-memory mail.Mailer for tests.
package mailtest

import (
	"context"
	"sync"

	"github.com/softionyx/site/internal/pkg/mail"
)

// Recorder captures sent messages. SendFunc, when set, decides the result
// of each Send; the message is recorded only on success.
type Recorder struct {
	Disabled bool
	User     string
	SendFunc func(mail.Message) error

	mu   sync.Mutex
	sent []mail.Message
}

func New() *Recorder { return &Recorder{User: "mailer@softionyx.com"} }

func (r *Recorder) Enabled() bool   { return !r.Disabled }
func (r *Recorder) Account() string { return r.User }

func (r *Recorder) Send(_ context.Context, msg mail.Message) error {
	if r.Disabled {
		return mail.ErrNotConfigured
	}
	if r.SendFunc != nil {
		if err := r.SendFunc(msg); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	return nil
}

// Sent returns a copy of the delivered messages.
func (r *Recorder) Sent() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}
