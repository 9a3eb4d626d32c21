package services

import (
	"context"
	"fmt"

	"github.com/rankforge/site-backend/errs"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts short alerts to the team phone through Twilio.
type SMSNotifier struct {
	api  messageCreator
	from string
	to   string
}

// NewSMSNotifier returns nil when any credential is missing; a nil notifier is a no-op.
func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	if accountSID == "" || authToken == "" || from == "" || to == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{api: client.Api, from: from, to: to}
}

// Notify sends body. The Twilio client has no context support, so the call is raced
// against ctx and abandoned when ctx ends first.
func (n *SMSNotifier) Notify(ctx context.Context, body string) error {
	if n == nil {
		return nil
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	done := make(chan error, 1)
	go func() {
		_, err := n.api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return errs.NewServiceUnavailableError("SMS delivery", fmt.Errorf("twilio: %w", err))
		}
		return nil
	case <-ctx.Done():
		return errs.FromOutbound("SMS delivery", ctx.Err())
	}
}
