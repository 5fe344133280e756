package application

import (
	"context"
	"time"

	"github.com/finhub-saas/identity-service/internal/domain/event"
)

// PasswordHasher is the one-way credential hashing collaborator.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// EmailSender delivers (or enqueues) outbound notification mail. Failures
// here never roll back a committed state change; callers log and move on.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, name, verifyURL string, expiresAt time.Time) error
	SendPasswordResetEmail(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error
	SendPasswordChangedEmail(ctx context.Context, to, name string) error
}

// EventPublisher dispatches domain events. A consumer observing a published
// event may assume the corresponding persistence already committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev event.Event) error
}
