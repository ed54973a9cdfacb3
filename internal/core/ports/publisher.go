package ports

import (
	"context"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}
