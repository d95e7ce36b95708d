// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type IMailService interface {
	SendSubscriptionExpiryNotice(to, userName, planName string, daysLeft int) error
	SendPaymentReceipt(to, userName, planName, orderID string, amount int64) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // e.g. 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@yourapp.com"
	FromName   string // display name
	UseSSL     bool   // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool   // if true, fail if STARTTLS not available

	AppName    string
	AppBaseURL string // e.g. "https://yourapp.com"
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	htmlTpl := template.Must(template.New("noticeHTML").Parse(noticeHTMLTemplate))
	textTpl := template.Must(template.New("noticeText").Parse(noticeTextTemplate))

	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: htmlTpl,
		textTpl: textTpl,
	}, nil
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendSubscriptionExpiryNotice(to, userName, planName string, daysLeft int) error {
	subject := fmt.Sprintf("Your %s plan expires in %d day(s)", planName, daysLeft)
	intro := fmt.Sprintf(
		"Hi %s, your %s subscription will expire in %d day(s). Renew now to keep monitoring your plants without interruption.",
		userName, planName, daysLeft,
	)
	if daysLeft <= 0 {
		subject = fmt.Sprintf("Your %s plan has expired", planName)
		intro = fmt.Sprintf(
			"Hi %s, your %s subscription has expired. Renew to restore full access to your plant dashboard.",
			userName, planName,
		)
	}

	html, text, err := s.renderEmail(EmailData{
		Title:     subject,
		Intro:     intro,
		ButtonURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/plans",
		ButtonTxt: "Renew Subscription",
		AppName:   s.cfg.AppName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) SendPaymentReceipt(to, userName, planName, orderID string, amount int64) error {
	subject := fmt.Sprintf("Payment received for your %s plan", planName)
	intro := fmt.Sprintf(
		"Hi %s, we received your payment of %d VND for the %s plan (order %s). Your subscription is now active.",
		userName, amount, planName, orderID,
	)

	html, text, err := s.renderEmail(EmailData{
		Title:   subject,
		Intro:   intro,
		AppName: s.cfg.AppName,
		Year:    time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const noticeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { margin: 0; background: #f4f7f4; color: #1a2e1a; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; }
    .wrapper { padding: 32px 16px; }
    .container { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 8px 24px rgba(26, 46, 26, 0.08); }
    .header { padding: 24px 32px; border-bottom: 1px solid rgba(26, 46, 26, 0.08); }
    .brand { font-size: 20px; font-weight: 700; color: #2f7d32; }
    .hero { padding: 32px; }
    h1 { font-size: 22px; margin: 0 0 16px; }
    p { line-height: 1.6; color: #3c4c3c; margin: 0 0 16px; }
    .btn { display: inline-block; padding: 12px 28px; border-radius: 8px; background: #2f7d32; color: #ffffff !important; text-decoration: none; font-weight: 600; }
    .footer { padding: 20px 32px; font-size: 12px; color: #7a8a7a; background: #f8faf8; border-top: 1px solid rgba(26, 46, 26, 0.06); }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">
        <div class="brand">{{.AppName}}</div>
      </div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .ButtonURL}}
          <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
          <p>If the button doesn't work, copy and paste this link into your browser:<br>{{.ButtonURL}}</p>
        {{end}}
      </div>
      <div class="footer">
        © {{.Year}} {{.AppName}}. All rights reserved.
      </div>
    </div>
  </div>
</body>
</html>`

const noticeTextTemplate = `{{.Title}}

{{.Intro}}

{{if .ButtonURL}}Open this link:
{{.ButtonURL}}
{{end}}

— {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	// Headers
	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	// Plaintext part
	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	// HTML part
	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	// End
	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if err = c.Auth(auth); err != nil {
			return err
		}
		if err = c.Mail(s.cfg.From); err != nil {
			return err
		}
		if err = c.Rcpt(to); err != nil {
			return err
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err = w.Write(msg.Bytes()); err != nil {
			return err
		}
		return w.Close()
	}

	// STARTTLS path (typically port 587)
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	} else if s.cfg.RequireTLS {
		return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
	}

	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	if strings.ContainsAny(name, "\"<>") || !isASCII(name) {
		return fmt.Sprintf("%q <%s>", name, s.cfg.From)
	}
	return fmt.Sprintf("%s <%s>", name, s.cfg.From)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
