package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

type smtpSettings struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string // e.g. "Grievance Cell <no-reply@your.org>"
	SkipTLSVerify bool
}

// loadSMTPSettings reads the mailer config per send, so values from a .env
// loaded in main are picked up.
func loadSMTPSettings() smtpSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return smtpSettings{
		Host:          os.Getenv("SMTP_HOST"),
		Port:          port,
		User:          os.Getenv("SMTP_USER"),
		Pass:          os.Getenv("SMTP_PASS"),
		From:          os.Getenv("SMTP_FROM"),
		SkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}

	smtp := loadSMTPSettings()
	if smtp.Host == "" || smtp.From == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Pass)

	// Mandatory STARTTLS on port 587 (suits Gmail/Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the SMTP hostname; SkipTLSVerify is dev-only.
	d.TLSConfig = &tls.Config{
		ServerName:         smtp.Host,
		InsecureSkipVerify: smtp.SkipTLSVerify,
	}

	return d.DialAndSend(m)
}
