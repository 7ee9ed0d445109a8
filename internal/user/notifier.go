package user

import (
	"strings"

	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/packages/email"
)

// Notifier 账号创建后的通知
type Notifier interface {
	AccountCreated(u *userModel.User) error
}

type noopNotifier struct{}

func (noopNotifier) AccountCreated(*userModel.User) error { return nil }

// EmailNotifier 通过 SMTP 发送账号通知
type EmailNotifier struct {
	sender   email.Sender
	tmpl     *email.Template
	loginURL string
}

// NewNotifier SMTP 未配置时返回空实现
func NewNotifier(conf *email.Config, baseURL string) (Notifier, error) {
	if !conf.Enabled() {
		return noopNotifier{}, nil
	}
	return NewEmailNotifier(email.NewClient(conf), baseURL)
}

func NewEmailNotifier(sender email.Sender, baseURL string) (*EmailNotifier, error) {
	tmpl, err := email.NewTemplate(email.AccountCreatedTemplate)
	if err != nil {
		return nil, err
	}
	return &EmailNotifier{
		sender:   sender,
		tmpl:     tmpl,
		loginURL: strings.TrimRight(baseURL, "/") + "/login",
	}, nil
}

func (n *EmailNotifier) AccountCreated(u *userModel.User) error {
	body, err := n.tmpl.Render(email.AccountCreatedData{
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		LoginURL: n.loginURL,
	})
	if err != nil {
		return err
	}

	return n.sender.Send(&email.Message{
		To:          []string{u.Email},
		Subject:     "Your guideline wiki account",
		Body:        body,
		ContentType: "text/html",
	})
}
