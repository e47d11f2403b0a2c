package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer delivers the cleartext verification code to a registrant. The
// code travels only over email; the activation token carries it
// encrypted.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name string, code int64) error
}

var verifyAccountTemplate = template.Must(template.New("verifyAccount").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Email verification</h2>
    <p>Hi {{.Name}},</p>
    <p>Use the code below to activate your seller account. It expires in 10 minutes.</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
    <p>If you did not sign up, you can ignore this email.</p>
  </body>
</html>`))

type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *zap.SugaredLogger
}

func NewSMTPMailer(host string, port int, username, password, from string, logger *zap.SugaredLogger) (*SMTPMailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: building smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: from, logger: logger}, nil
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, name string, code int64) error {
	var body bytes.Buffer
	if err := verifyAccountTemplate.Execute(&body, struct {
		Name string
		Code int64
	}{Name: name, Code: code}); err != nil {
		return fmt.Errorf("mail: rendering verification email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Email verification")
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Errorw("failed to send verification email", "to", to, "error", err)
		return err
	}

	return nil
}
