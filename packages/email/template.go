package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template 邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从 HTML 字符串创建模板
func NewTemplate(htmlContent string) (*Template, error) {
	tmpl, err := template.New("email").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("解析邮件模板失败: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Render 渲染模板
func (t *Template) Render(data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return buf.String(), nil
}

// AccountCreatedData 账号开通通知的模板数据
type AccountCreatedData struct {
	Name     string
	Email    string
	Role     string
	LoginURL string
}

// AccountCreatedTemplate 管理员为他人创建账号后发送的通知
const AccountCreatedTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .footer { margin-top: 24px; font-size: 12px; color: #888; }
    </style>
</head>
<body>
    <div class="container">
        <p>Hello {{.Name}},</p>
        <p>An account with role <strong>{{.Role}}</strong> has been created for <strong>{{.Email}}</strong> on the treatment guidelines wiki.</p>
        <p>Sign in at <a href="{{.LoginURL}}">{{.LoginURL}}</a> with the password your administrator gave you.</p>
        <div class="footer">This message was sent automatically. Please do not reply.</div>
    </div>
</body>
</html>
`
