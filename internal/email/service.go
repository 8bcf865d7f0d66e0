package email

import (
	"context"
	"strings"

	"github.com/mdewinter/gatehouse/internal/krypto"
)

// Placeholders recognized in the configured message templates.
const (
	PlaceholderToken           = "{ACTIVATION_TOKEN}"
	PlaceholderEmailIdentifier = "{EMAIL_IDENTIFIER}"
)

// Sender is responsible for actually delivering an email.
// htmlBody may be empty, in which case a plaintext-only message is sent.
type Sender interface {
	Send(ctx context.Context, from, recipient Address, subject, body, htmlBody string) error
}

// Templates holds the configured inputs for activation messages.
type Templates struct {
	From     Address
	Subject  string
	Body     string
	HTMLBody string
}

// Service fills the configured templates and hands the result to a Sender.
type Service struct {
	sender Sender
	tmpl   Templates
}

func NewService(sender Sender, tmpl Templates) *Service {
	return &Service{
		sender: sender,
		tmpl:   tmpl,
	}
}

// SendActivation sends an activation message to the recipient. The
// activation token and the recipient's encoded identifier are substituted
// into the body templates.
func (s *Service) SendActivation(ctx context.Context, to Address, token krypto.Token) error {
	fills := map[string]string{
		PlaceholderToken:           token.String(),
		PlaceholderEmailIdentifier: to.Identifier(),
	}

	body := fillTemplate(s.tmpl.Body, fills)

	htmlBody := ""
	if s.tmpl.HTMLBody != "" {
		htmlBody = fillTemplate(s.tmpl.HTMLBody, fills)
	}

	return s.sender.Send(ctx, s.tmpl.From, to, s.tmpl.Subject, body, htmlBody)
}

func fillTemplate(tmpl string, fills map[string]string) string {
	out := tmpl
	for key, value := range fills {
		out = strings.ReplaceAll(out, key, value)
	}
	return out
}
