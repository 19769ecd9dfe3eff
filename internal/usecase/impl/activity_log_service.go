package impl

import (
	"context"
	"log/slog"

	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	"voltcart/internal/domain/repository"
	"voltcart/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// activityLogService implements the ActivityLogUsecase interface.
type activityLogService struct {
	logRepo repository.ActivityLogRepository
	logger  *slog.Logger
}

// ActivityLogServiceParams holds dependencies for ActivityLogService, injected by Fx.
type ActivityLogServiceParams struct {
	fx.In

	LogRepo repository.ActivityLogRepository
	Logger  *slog.Logger
}

// NewActivityLogService is the constructor for activityLogService.
func NewActivityLogService(params ActivityLogServiceParams) usecase.ActivityLogUsecase {
	return &activityLogService{
		logRepo: params.LogRepo,
		logger:  params.Logger,
	}
}

// Record stores one audit entry. Callers treat failures as non-fatal.
func (srv *activityLogService) Record(ctx context.Context, log *entity.ActivityLog) error {
	if err := srv.logRepo.Insert(ctx, log); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).
			Warn("Failed to record activity log", slog.String("path", log.Path), slog.Any("error", err))

		return errors.Wrap(err, "failed to record activity log")
	}

	return nil
}

// List loads audit entries matching the query, newest first.
func (srv *activityLogService) List(ctx context.Context, query repository.ActivityLogQuery) ([]*entity.ActivityLog, error) {
	logs, err := srv.logRepo.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list activity logs")
	}

	return logs, nil
}
