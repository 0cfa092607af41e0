package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
)

// SMTPNotifier manda los avisos por email vía SMTP.
type SMTPNotifier struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPNotifier(host string, port int, from, user, pass string) *SMTPNotifier {
	return &SMTPNotifier{Host: host, Port: port, From: from, User: user, Pass: pass}
}

func (s *SMTPNotifier) AppointmentConfirmation(_ context.Context, to, patientName string, at time.Time, tokenNumber int) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Confirmación de turno")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hola %s, tu turno quedó agendado para el %s. Tu número de atención es %d.",
		patientName, at.Format("02/01/2006 15:04"), tokenNumber))

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}
	return d.DialAndSend(m)
}
