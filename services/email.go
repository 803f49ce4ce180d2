package services

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"permit-portal/config"
	"permit-portal/logger"
	"permit-portal/models"

	"gopkg.in/gomail.v2"
)

// SendPermitIssuedEmail sends the permit document to the student after
// first issuance. Sending is best-effort: the permit is already issued
// and a mail failure only gets logged by the caller.
func SendPermitIssuedEmail(permit *models.Permit, document []byte, filename string) error {
	from := config.AppConfig.EmailFrom
	if from == "" {
		from = config.AppConfig.SMTPUser
	}
	if from == "" {
		return fmt.Errorf("email sender not configured (set EMAIL_FROM or SMTP_USER)")
	}
	if config.AppConfig.SMTPUser == "" || config.AppConfig.SMTPPass == "" {
		return fmt.Errorf("smtp credentials not configured (set SMTP_USER and SMTP_PASS)")
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <p>Dear <strong>%s</strong>,</p>
    <p>Your examination permit fee payment has been confirmed.</p>
    <p><strong>Permit code:</strong> %s<br/>
       <strong>Valid until:</strong> %s</p>
    <p>Your permit document is attached. You can re-check its validity at
       any time by scanning the code on the document.</p>
    <p>Student Council</p>
</body>
</html>
	`, permit.Student.Name, permit.Code, permit.ExpiresAt.Format("2 January 2006"))

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", permit.Student.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your examination permit %s", permit.Code))
	m.SetBody("text/html", body)
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(document))
		return err
	}))

	port := 587
	if p, err := strconv.Atoi(config.AppConfig.SMTPPort); err == nil {
		port = p
	}

	d := gomail.NewDialer(config.AppConfig.SMTPHost, port, config.AppConfig.SMTPUser, config.AppConfig.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send permit email: %w", err)
	}

	logger.Info("Permit email sent to %s for %s", permit.Student.Email, permit.Code)
	return nil
}
