package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"

	"github.com/go-resty/resty/v2"
)

// SendEmail delivers a plain-text message. Transport is picked from the
// environment: an HTTP mail API when MAIL_API_URL is set, SMTP when
// SMTP_ADDRESS is set, otherwise the message is printed to the console so
// development setups still see OTPs and links.
func SendEmail(emailTo string, emailSubject string, emailBody string) error {
	if apiURL := os.Getenv("MAIL_API_URL"); apiURL != "" {
		return sendViaMailAPI(apiURL, emailTo, emailSubject, emailBody)
	}
	if smtpAddr := os.Getenv("SMTP_ADDRESS"); smtpAddr != "" {
		return sendViaSMTP(smtpAddr, emailTo, emailSubject, emailBody)
	}

	log.Printf("=== CONSOLE MAIL ===\nTo: %s\nSubject: %s\n%s\n====================", emailTo, emailSubject, emailBody)
	return nil
}

func sendViaMailAPI(apiURL, emailTo, emailSubject, emailBody string) error {
	resp, err := resty.New().R().
		SetHeader("Authorization", "Bearer "+os.Getenv("MAIL_API_KEY")).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"from":    os.Getenv("FROM_EMAIL"),
			"to":      emailTo,
			"subject": emailSubject,
			"text":    emailBody,
		}).
		Post(apiURL)
	if err != nil {
		return fmt.Errorf("mail api request failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("mail api returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func sendViaSMTP(smtpAddr, emailTo, emailSubject, emailBody string) error {
	from := os.Getenv("FROM_EMAIL")
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, emailTo, emailSubject, emailBody,
	)

	auth := smtp.PlainAuth(
		"",
		from,
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(smtpAddr, auth, from, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
