package messaging

import (
	"context"
	"time"

	"github.com/finhub-saas/identity-service/pkg/helpers"
	"github.com/finhub-saas/identity-service/pkg/mailer"
	mailtpl "github.com/finhub-saas/identity-service/pkg/mailer/templates"
)

// QueueEmailSender enqueues email jobs to RabbitMQ; the email worker binary
// renders and delivers them. Enabled=false short-circuits every send, which
// keeps development environments from mailing anyone.
type QueueEmailSender struct {
	pub     *helpers.RabbitPublisher
	appName string
	enabled bool
}

func NewQueueEmailSender(pub *helpers.RabbitPublisher, appName string, enabled bool) *QueueEmailSender {
	return &QueueEmailSender{pub: pub, appName: appName, enabled: enabled}
}

func (s *QueueEmailSender) SendVerificationEmail(ctx context.Context, to, name, verifyURL string, expiresAt time.Time) error {
	return s.enqueue(ctx, to, mailtpl.VerifyEmail, mailtpl.EmailData{
		Name:      name,
		Email:     to,
		AppName:   s.appName,
		ActionURL: verifyURL,
		ExpiresAt: expiresAt,
	})
}

func (s *QueueEmailSender) SendPasswordResetEmail(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error {
	return s.enqueue(ctx, to, mailtpl.ForgotPassword, mailtpl.EmailData{
		Name:      name,
		Email:     to,
		AppName:   s.appName,
		ActionURL: resetURL,
		ExpiresAt: expiresAt,
	})
}

func (s *QueueEmailSender) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	return s.enqueue(ctx, to, mailtpl.PasswordChanged, mailtpl.EmailData{
		Name:    name,
		Email:   to,
		AppName: s.appName,
	})
}

func (s *QueueEmailSender) enqueue(ctx context.Context, to, template string, data mailtpl.EmailData) error {
	if !s.enabled || s.pub == nil {
		return nil
	}
	job := mailer.EmailJob{To: to, Template: template, Data: mailtpl.ToMap(data)}
	return s.pub.PublishJSON(ctx, job)
}
