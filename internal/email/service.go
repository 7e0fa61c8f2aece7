package email

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP
type Service struct {
	addr string
	from string
	auth smtp.Auth
	send sendFunc
}

// NewService creates a new email service. Authentication is used only when
// username is set.
func NewService(host, port, from, username, password string) *Service {
	s := &Service{
		addr: net.JoinHostPort(host, port),
		from: from,
		send: smtp.SendMail,
	}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// SendOrderConfirmation mails the summary of a newly placed order
func (s *Service) SendOrderConfirmation(to string, o OrderSummary) error {
	body, err := RenderOrderConfirmation(o)
	if err != nil {
		return err
	}
	return s.deliver(to, fmt.Sprintf("Order #%d received", o.OrderID), body)
}

// SendStatusUpdate mails the new status of an order
func (s *Service) SendStatusUpdate(to string, u StatusUpdate) error {
	body, err := RenderStatusUpdate(u)
	if err != nil {
		return err
	}
	return s.deliver(to, fmt.Sprintf("Order #%d is now %s", u.OrderID, strings.ToLower(u.To)), body)
}

func (s *Service) deliver(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	if err := s.send(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
