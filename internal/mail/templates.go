package mail

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Template names, also used as metric labels
const (
	TemplateContactNotification     = "contact_notification"
	TemplateContactConfirmation     = "contact_confirmation"
	TemplateInquiryNotification     = "inquiry_notification"
	TemplateInquiryConfirmation     = "inquiry_confirmation"
	TemplateApplicationNotification = "application_notification"
)

// Field is one label/value row of a notification
type Field struct {
	Label string
	Value string
}

// Notification is the data behind an email to the business inbox
type Notification struct {
	Template   string
	Subject    string
	Title      string
	Fields     []Field
	BodyLabel  string
	Body       string
	ReplyTo    string
	ReceivedAt time.Time
}

// Confirmation is the data behind an acknowledgement to a visitor
type Confirmation struct {
	Template string
	To       string
	Name     string
	Subject  string
	Lead     string
	Body     string
}

// Composer renders messages with the site name and business inbox filled in
type Composer struct {
	siteName string
	inbox    string
}

// NewComposer creates a composer for cfg
func NewComposer(cfg *Config) *Composer {
	return &Composer{siteName: cfg.SiteName, inbox: cfg.To}
}

// Notification renders n addressed to the business inbox
func (c *Composer) Notification(n Notification) (Message, error) {
	data := struct {
		Notification
		SiteName   string
		ReceivedAt string
	}{n, c.siteName, n.ReceivedAt.Format("Jan 2, 2006 15:04 MST")}

	html, text, err := render("notification", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{c.inbox},
		ReplyTo:  n.ReplyTo,
		Subject:  n.Subject,
		HTML:     html,
		Text:     text,
		Template: n.Template,
	}, nil
}

// Confirmation renders cf addressed to the visitor
func (c *Composer) Confirmation(cf Confirmation) (Message, error) {
	data := struct {
		Confirmation
		SiteName string
	}{cf, c.siteName}

	html, text, err := render("confirmation", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{cf.To},
		Subject:  cf.Subject,
		HTML:     html,
		Text:     text,
		Template: cf.Template,
	}, nil
}

func render(name string, data interface{}) (string, string, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", err
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}
