package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends plain-text mail through Amazon SES.
type SESMailer struct {
	client EmailSender
	from   string
}

func NewSESMailer(client EmailSender, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func FriendRequestEmail(fromName string) (subject, body string) {
	subject = "New friend request"
	body = fmt.Sprintf("%s wants to cook along with you.\n\nOpen the app to accept or decline the request.", fromName)
	return subject, body
}

func FriendAcceptedEmail(byName string) (subject, body string) {
	subject = "Friend request accepted"
	body = fmt.Sprintf("%s accepted your friend request. You can now follow each other's public reflections.", byName)
	return subject, body
}
