package usecase

import (
	"context"

	"voltcart/internal/domain/entity"
	"voltcart/internal/domain/repository"
)

// ActivityLogUsecase records and lists request audit entries.
type ActivityLogUsecase interface {
	// Record stores one audit entry. Callers treat failures as non-fatal.
	Record(ctx context.Context, log *entity.ActivityLog) error

	// List loads audit entries matching the query, newest first. Admin only.
	List(ctx context.Context, query repository.ActivityLogQuery) ([]*entity.ActivityLog, error)
}
