package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendNewConversationNotice(toEmail, communityId, conversationId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	configured  bool
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		configured:  host != "" && senderEmail != "",
	}
}

// SendNewConversationNotice tells the support inbox a new conversation is
// waiting. Best effort: when SMTP is unset the notice is skipped.
func (s *emailService) SendNewConversationNotice(toEmail, communityId, conversationId string) error {
	if !s.configured || toEmail == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("New support conversation (%s)", communityId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New support conversation</h2>
			<p>A resident of <strong>%s</strong> just opened a conversation and is waiting for an agent.</p>
			<p>Conversation id: <code>%s</code></p>
		</div>
	`, communityId, conversationId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to notify %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
