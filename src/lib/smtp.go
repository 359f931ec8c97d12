package lib

import (
	"context"
	"errors"
	"foodievent/src/config"
	"log"

	"github.com/wneessen/go-mail"
)

var ErrMailerDisabled = errors.New("smtp is not configured")

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
}

type Mailer interface {
	Send(ctx context.Context, in *SendMailInput) error
}

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{host: cfg.SmtpHost, port: cfg.SmtpPort, user: cfg.SmtpUsername, pass: cfg.SmtpPassword}
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	if m.host == "" {
		return nil, ErrMailerDisabled
	}
	c, err := mail.NewClient(
		m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

func BuildMessage(in *SendMailInput) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(in.FromName, in.From); err != nil {
		return nil, err
	}
	if err := msg.To(in.To...); err != nil {
		return nil, err
	}
	msg.Subject(in.Subject)
	msg.SetBodyString(mail.TypeTextPlain, in.Body)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, in *SendMailInput) error {
	msg, err := BuildMessage(in)
	if err != nil {
		return err
	}
	c, err := m.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}
