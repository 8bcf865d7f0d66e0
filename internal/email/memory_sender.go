package email

import "context"

// MemorySender is a Sender that collects emails in memory. It is meant
// for tests that need to capture outgoing messages.
type MemorySender struct {
	Emails []struct {
		From      Address
		Recipient Address
		Subject   string
		Body      string
		HTMLBody  string
	}
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) Send(_ context.Context, from, recipient Address, subject, body, htmlBody string) error {
	s.Emails = append(s.Emails, struct {
		From      Address
		Recipient Address
		Subject   string
		Body      string
		HTMLBody  string
	}{
		From:      from,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		HTMLBody:  htmlBody,
	})
	return nil
}
