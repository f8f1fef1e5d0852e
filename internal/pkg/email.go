package pkg

import (
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // display sender, may equal Username
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

// CaseReportAlertHTML is the safeguarding-desk notice for a new case report.
// It carries no victim or suspect details.
func CaseReportAlertHTML(reportID uint64, typeOfAbuse, reportAs string, filedAt time.Time) string {
	return fmt.Sprintf(`<p>A new case report has been filed.</p>`+
		`<p>Report <b>#%d</b>: %s abuse, reported as %s, at %s.</p>`+
		`<p>Open the case dashboard to review it.</p>`,
		reportID,
		html.EscapeString(typeOfAbuse),
		html.EscapeString(reportAs),
		filedAt.UTC().Format(time.RFC1123),
	)
}
