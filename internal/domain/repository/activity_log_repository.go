package repository

import (
	"context"

	"voltcart/internal/domain/entity"
)

// ActivityLogQuery narrows an activity log listing. Zero values mean "all".
type ActivityLogQuery struct {
	Username string // Filter by the recorded username.
	Role     string // Filter by role, "admin" or "user".
	Limit    int    // Maximum entries to return; the implementation caps this.
}

// ActivityLogRepository persists request audit entries. Unlike the other
// repositories this one is backed by MongoDB, so it sits outside the
// relational transaction manager.
type ActivityLogRepository interface {
	// Insert records one audit entry. Failures must not fail the audited request.
	Insert(ctx context.Context, log *entity.ActivityLog) error

	// Find retrieves audit entries matching the query, newest first.
	Find(ctx context.Context, query ActivityLogQuery) ([]*entity.ActivityLog, error)
}
