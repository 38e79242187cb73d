package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/internal/testutil"
)

func TestMailAdapterSends(t *testing.T) {
	dialer := &testutil.RecordingDialer{}
	a := NewMailAdapterFromDialer(dialer, "registrar@campus.example")

	result := a.Invoke(context.Background(), MailRequest{
		Recipients: []string{"advisors@campus.example"},
		Subject:    "Enrollment deadline",
		Body:       "Reminder: enrollment closes Friday.",
	})

	require.True(t, result.OK(), "failure: %v", result.Failure)
	assert.Contains(t, result.Confirmation, "sent to advisors@campus.example")
	require.Len(t, dialer.Sent(), 1)
}

func TestMailAdapterRejectsNoRecipients(t *testing.T) {
	a := NewMailAdapterFromDialer(&testutil.RecordingDialer{}, "registrar@campus.example")
	result := a.Invoke(context.Background(), MailRequest{Subject: "no one", Body: "x"})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureRejected, result.Failure.Kind)
}

func TestMailAdapterClassifiesTransportFailure(t *testing.T) {
	dialer := &testutil.RecordingDialer{Err: errors.New("connection refused")}
	a := NewMailAdapterFromDialer(dialer, "registrar@campus.example")

	result := a.Invoke(context.Background(), MailRequest{
		Recipients: []string{"advisors@campus.example"},
		Body:       "x",
	})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureUnavailable, result.Failure.Kind)
}

func TestMailAdapterClassifiesTimeout(t *testing.T) {
	dialer := &testutil.RecordingDialer{Err: context.DeadlineExceeded}
	a := NewMailAdapterFromDialer(dialer, "registrar@campus.example")

	result := a.Invoke(context.Background(), MailRequest{
		Recipients: []string{"advisors@campus.example"},
		Body:       "x",
	})

	require.False(t, result.OK())
	assert.Equal(t, core.FailureTimeout, result.Failure.Kind)
}
