package utils

import (
	"context"
	"fmt"
	"html"
	"log"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends certificate notifications through SendGrid. Without an API
// key or sender it only logs.
type Mailer struct {
	apiKey string
	sender string
}

func NewMailer(apiKey, sender string) *Mailer {
	return &Mailer{apiKey: apiKey, sender: sender}
}

func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.sender != ""
}

// CertificateIssued e-mails the user about a new certificate
func (m *Mailer) CertificateIssued(ctx context.Context, user models.User, cert courseModels.Certificate) error {
	if !m.Enabled() || user.Email == "" {
		log.Printf("[EMAIL] Skipping certificate e-mail for %s", user.ID)
		return nil
	}

	subject, plain, body := certificateEmail(cert)
	message := mail.NewSingleEmail(
		mail.NewEmail("Universidade Corporativa", m.sender),
		subject,
		mail.NewEmail(user.Name, user.Email),
		plain,
		body,
	)

	resp, err := sendgrid.NewSendClient(m.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid answered %d: %s", resp.StatusCode, resp.Body)
	}
	log.Printf("[EMAIL] Certificate e-mail sent to %s", user.Email)
	return nil
}

func certificateEmail(cert courseModels.Certificate) (subject, plain, body string) {
	subject = fmt.Sprintf("Certificado: %s", cert.CourseTitle)
	plain = fmt.Sprintf(
		"Parabéns, %s! Você concluiu o curso %s em %s.",
		cert.UserName, cert.CourseTitle, cert.IssuedAt.Format("02/01/2006"),
	)
	body = fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2 style="color: #333333; text-align: center;">Parabéns, %s!</h2>
				<p style="font-size: 16px; color: #555555; text-align: center;">Você concluiu o curso</p>
				<h1 style="text-align: center; color: #4CAF50; font-size: 28px; margin: 20px 0;">%s</h1>
				<p style="font-size: 12px; color: #999999; text-align: center;">Certificado %s emitido em %s</p>
			</div>
		</body>
	</html>
	`, html.EscapeString(cert.UserName), html.EscapeString(cert.CourseTitle), html.EscapeString(cert.ID), cert.IssuedAt.Format("02/01/2006"))
	return subject, plain, body
}
