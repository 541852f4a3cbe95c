package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	MAX_RETRY              = 3
	CADET_ACCOUNT_TEMPLATE = "cadet_account.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// CadetAccount fills CADET_ACCOUNT_TEMPLATE. The password never goes out by mail.
type CadetAccount struct {
	AppName       string
	CadetName     string
	CuratorName   string
	Email         string
	AcademicGroup string
}

// render executes the "subject" and "body" blocks of templateFile.
func render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}
