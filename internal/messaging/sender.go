package messaging

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers outbound WhatsApp messages.
type Sender interface {
	Send(to, message string) (string, error)
}

// TwilioSender sends through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a sender. from must already carry the channel
// prefix, e.g. "whatsapp:+14155238886".
func NewTwilioSender(accountSID, authToken, from string) (*TwilioSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("messaging: twilio account sid, auth token and from number are required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}, nil
}

// Send delivers a WhatsApp message and returns the provider message id.
func (t *TwilioSender) Send(to, message string) (string, error) {
	if !strings.HasPrefix(to, channelPrefix) {
		to = channelPrefix + to
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("messaging: send whatsapp message: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("messaging: provider returned no message sid")
	}
	return *resp.Sid, nil
}
