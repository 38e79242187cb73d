package testutil

import (
	"context"
	"sync"

	"github.com/wneessen/go-mail"
)

// RecordingDialer captures outbound messages instead of dialing SMTP. Err,
// when set, is returned from every send.
type RecordingDialer struct {
	mu   sync.Mutex
	sent []*mail.Msg

	Err error
}

// DialAndSendWithContext records msgs, or fails with Err.
func (d *RecordingDialer) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	if d.Err != nil {
		return d.Err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msgs...)
	return nil
}

// Sent returns the captured messages.
func (d *RecordingDialer) Sent() []*mail.Msg {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*mail.Msg(nil), d.sent...)
}
