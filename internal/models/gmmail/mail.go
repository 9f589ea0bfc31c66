package gmmail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config porte les réglages SMTP (miroir de la section mail du yaml)
type Config struct {
	Enabled    bool
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	Recipients []string
}

// Message est un email à envoyer
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender envoie les notifications par SMTP
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send expédie un email. Sans serveur configuré, l'envoi est ignoré
// silencieusement: le formulaire de contact reste fonctionnel sans SMTP.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		log.Debug().Msg("Envoi mail désactivé, message ignoré")
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("aucun destinataire")
	}
	return s.sendSMTP(msg)
}

func (s *Sender) sendSMTP(msg Message) error {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

const contactNotifyTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:20px">
  <div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px;border-top:4px solid #b45309">
    <h2 style="color:#333;margin-top:0">New enquiry on {{.SiteName}}</h2>
    <table width="100%" cellpadding="6" cellspacing="0" style="font-size:14px;color:#333">
      <tr><td style="width:120px;color:#888">Name</td><td><strong>{{.Name}}</strong></td></tr>
      <tr><td style="color:#888">Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      {{if .Phone}}<tr><td style="color:#888">Phone</td><td>{{.Phone}}</td></tr>{{end}}
      {{if .Company}}<tr><td style="color:#888">Company</td><td>{{.Company}}</td></tr>{{end}}
      {{if .Subject}}<tr><td style="color:#888">Subject</td><td>{{.Subject}}</td></tr>{{end}}
    </table>
    <div style="background:#f3f4f6;border-radius:8px;padding:12px 16px;margin-top:16px">
      <p style="font-size:14px;line-height:22px;margin:0;color:#333;white-space:pre-wrap">{{.Message}}</p>
    </div>
    <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:24px 0" />
    <p style="font-size:11px;color:#9ca3af;margin:0">Received {{.ReceivedAt}} from {{.IPAddress}}. This message was sent automatically, do not reply to this address.</p>
  </div>
</body>
</html>`

// ContactNotifyData alimente le template de notification d'une demande
// envoyée depuis le formulaire de contact
type ContactNotifyData struct {
	SiteName   string
	Name       string
	Email      string
	Phone      string
	Company    string
	Subject    string
	Message    string
	IPAddress  string
	ReceivedAt string
}

func renderTemplate(tpl string, data any) (string, error) {
	t, err := template.New("").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendContactNotify notifie les adresses configurées d'une nouvelle demande
func (s *Sender) SendContactNotify(to []string, data ContactNotifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Gopal Metals"
	}
	if strings.TrimSpace(data.IPAddress) == "" {
		data.IPAddress = "-"
	}
	if strings.TrimSpace(data.ReceivedAt) == "" {
		data.ReceivedAt = time.Now().Format("2006-01-02 15:04")
	}

	html, err := renderTemplate(contactNotifyTpl, data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("[%s] New contact enquiry from %s", data.SiteName, data.Name)
	return s.Send(Message{
		To:      to,
		Subject: subject,
		HTML:    html,
	})
}
