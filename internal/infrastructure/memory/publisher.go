package memory

import (
	"context"

	"github.com/spectral-labs/auth-api/internal/application/auth"
	"github.com/spectral-labs/auth-api/internal/logger"
)

// NoopPublisher logs events instead of publishing them. Used when no
// broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, ev auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("user_id", ev.UserID).
		Str("role", ev.Role).
		Msg("user.registered event dropped, no broker configured")
	return nil
}
