package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSender) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{}, f.err
}

func TestSESMailer(t *testing.T) {
	sender := &fakeSender{}
	m := NewSESMailer(sender, "noreply@example.com")

	subject, body := FriendRequestEmail("Ada Lovelace")
	require.NoError(t, m.Send(context.Background(), "bob@example.com", subject, body))
	assert.Equal(t, "noreply@example.com", aws.ToString(sender.in.Source))
	assert.Equal(t, []string{"bob@example.com"}, sender.in.Destination.ToAddresses)
	assert.Equal(t, "New friend request", aws.ToString(sender.in.Message.Subject.Data))
	assert.Contains(t, aws.ToString(sender.in.Message.Body.Text.Data), "Ada Lovelace")

	sender.err = errors.New("throttled")
	assert.Error(t, m.Send(context.Background(), "bob@example.com", "s", "b"))
}

func TestFriendAcceptedEmail(t *testing.T) {
	subject, body := FriendAcceptedEmail("Bob")
	assert.Equal(t, "Friend request accepted", subject)
	assert.Contains(t, body, "Bob accepted")
}
