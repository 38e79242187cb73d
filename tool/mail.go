package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/campusops/adminflow/core"
)

// Dialer is the subset of *mail.Client the adapter needs; tests substitute
// a recording stub.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

// MailOptions configure the outbound transport.
type MailOptions struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// MailAdapter sends staff messages over SMTP.
type MailAdapter struct {
	dialer Dialer
	from   string
}

// NewMailAdapter builds the SMTP client from opts.
func NewMailAdapter(opts MailOptions) (*MailAdapter, error) {
	clientOpts := []mail.Option{mail.WithPort(opts.Port)}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}
	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	return &MailAdapter{dialer: client, from: opts.From}, nil
}

// NewMailAdapterFromDialer wraps an existing dialer (tests).
func NewMailAdapterFromDialer(d Dialer, from string) *MailAdapter {
	return &MailAdapter{dialer: d, from: from}
}

// Capability implements Adapter.
func (a *MailAdapter) Capability() core.Capability { return core.CapabilityMail }

// Invoke implements Adapter.
func (a *MailAdapter) Invoke(ctx context.Context, req Request) core.ToolResult {
	mr, ok := req.(MailRequest)
	if !ok {
		return badRequest(core.CapabilityMail)
	}
	if len(mr.Recipients) == 0 {
		return core.Failed(core.CapabilityMail, core.FailureRejected, "message has no recipients")
	}

	msg := mail.NewMsg()
	if err := msg.From(a.from); err != nil {
		return core.Failed(core.CapabilityMail, core.FailureRejected, fmt.Sprintf("invalid sender %q: %v", a.from, err))
	}
	if err := msg.To(mr.Recipients...); err != nil {
		return core.Failed(core.CapabilityMail, core.FailureRejected, fmt.Sprintf("invalid recipients: %v", err))
	}
	msg.Subject(mr.Subject)
	msg.SetBodyString(mail.TypeTextPlain, mr.Body)
	messageID := core.NewID()
	msg.SetMessageIDWithValue(messageID)

	if err := a.dialer.DialAndSendWithContext(ctx, msg); err != nil {
		kind := core.FailureUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			kind = core.FailureTimeout
		}
		return core.Failed(core.CapabilityMail, kind, fmt.Sprintf("send message: %v", err))
	}

	return core.OkConfirmation(core.CapabilityMail,
		fmt.Sprintf("message %s sent to %s", messageID, strings.Join(mr.Recipients, ", ")))
}
