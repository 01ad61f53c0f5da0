package mail

import (
	"bytes"
	"html/template"
)

const layout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #2563eb; color: #fff; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">{{.Title}}</h1>
    </div>
    <div style="padding: 20px; background-color: #f9fafb;">
      <p>Hola {{.Name}},</p>
      {{template "body" .}}
      <div style="background-color: #fef3c7; border-left: 4px solid #f59e0b; padding: 12px; margin: 20px 0;">
        <p><strong>Importante:</strong></p>
        <ul>
          <li>{{.Expiry}} {{.Minutes}} minutos</li>
          <li>No compartas este correo con nadie</li>
          <li>Si no solicitaste este cambio, ignora este mensaje</li>
        </ul>
      </div>
    </div>
    <div style="text-align: center; padding: 20px; color: #666; font-size: 12px;">
      <p>{{.AppName}}</p>
    </div>
  </div>
</body>
</html>`

const codeBody = `{{define "body"}}
      <p>Solicitaste restablecer tu contraseña en {{.AppName}}. Tu código de verificación es:</p>
      <div style="font-size: 32px; font-weight: bold; text-align: center; letter-spacing: 8px; color: #2563eb; padding: 20px; background-color: #fff; border: 2px solid #2563eb; border-radius: 8px;">{{.Code}}</div>
      <p>Ingresa este código en la página de recuperación para continuar.</p>
{{end}}`

const linkBody = `{{define "body"}}
      <p>Tu código fue verificado. Usa el siguiente botón para elegir una nueva contraseña:</p>
      <p style="text-align: center; margin: 30px 0;">
        <a href="{{.Link}}" style="background-color: #2563eb; color: #fff; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Restablecer contraseña</a>
      </p>
      <p>Si el botón no funciona, copia este enlace en tu navegador:</p>
      <p style="word-break: break-all; color: #2563eb;">{{.Link}}</p>
{{end}}`

var (
	codeTemplate = template.Must(template.Must(template.New("code").Parse(layout)).Parse(codeBody))
	linkTemplate = template.Must(template.Must(template.New("link").Parse(layout)).Parse(linkBody))
)

type messageData struct {
	Title   string
	Name    string
	AppName string
	Code    string
	Link    string
	Expiry  string
	Minutes int
}

func render(t *template.Template, data messageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
