package repository

import (
	"context"

	"github.com/veranemoloko/route-uploader/internal/domain"
)

// RouteRepo defines the interface for route catalog operations.
type RouteRepo interface {
	SaveRoute(ctx context.Context, route *domain.UploadTarget) error
	GetRoute(ctx context.Context, name string) (*domain.UploadTarget, error)
	ListRoutes(ctx context.Context) ([]*domain.UploadTarget, error)
}
