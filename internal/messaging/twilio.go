// Package messaging adapts the WhatsApp gateway: inbound webhook parsing,
// request signature validation, TwiML responses and outbound sends.
package messaging

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// channelPrefix is what the gateway prepends to phone numbers on the
// WhatsApp channel.
const channelPrefix = "whatsapp:"

// InboundMessage is one parsed webhook delivery.
type InboundMessage struct {
	// ContactID is the sender's phone number with the channel prefix
	// stripped.
	ContactID string
	Body      string
}

// ParseWebhook extracts the inbound message from the gateway's form-encoded
// webhook request.
func ParseWebhook(r *http.Request) (InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return InboundMessage{}, fmt.Errorf("messaging: parse webhook form: %w", err)
	}
	from := strings.TrimSpace(r.PostForm.Get("From"))
	if from == "" {
		return InboundMessage{}, fmt.Errorf("messaging: webhook missing From field")
	}
	return InboundMessage{
		ContactID: strings.TrimPrefix(from, channelPrefix),
		Body:      strings.TrimSpace(r.PostForm.Get("Body")),
	}, nil
}

// ComputeSignature calculates the gateway's request signature: the full URL
// concatenated with the sorted form parameters, HMAC-SHA1 with the auth
// token, base64 encoded.
func ComputeSignature(authToken, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidSignature checks the X-Twilio-Signature header against the request.
func ValidSignature(authToken string, r *http.Request) bool {
	got := r.Header.Get("X-Twilio-Signature")
	if got == "" {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}

	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	fullURL := fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())

	want := ComputeSignature(authToken, fullURL, r.PostForm)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

type twimlMessage struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// TwiML wraps a reply in the gateway's response envelope.
func TwiML(message string) []byte {
	body, err := xml.Marshal(twimlMessage{Message: message})
	if err != nil {
		// Marshalling a string cannot fail; keep the gateway satisfied anyway.
		body = []byte("<Response><Message></Message></Response>")
	}
	return append([]byte(xml.Header), body...)
}
