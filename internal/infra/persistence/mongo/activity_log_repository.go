package mongo

import (
	"context"
	"log/slog"
	"time"

	"voltcart/internal/domain/entity"
	"voltcart/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	activityLogCollection = "activity_logs"
	defaultFindLimit      = 100
	maxFindLimit          = 500
)

// activityLogDocument is the BSON shape stored in MongoDB.
type activityLogDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id,omitempty"`
	Username   string             `bson:"username"`
	Role       string             `bson:"role"`
	Method     string             `bson:"method"`
	Path       string             `bson:"path"`
	StatusCode int                `bson:"status_code"`
	IP         string             `bson:"ip"`
	UserAgent  string             `bson:"user_agent"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type activityLogRepository struct {
	col    *mongo.Collection
	logger *slog.Logger
}

// NewActivityLogRepository creates the audit log repository and ensures
// the created_at index used by newest-first listings exists.
func NewActivityLogRepository(db *mongo.Database, logger *slog.Logger) repository.ActivityLogRepository {
	col := db.Collection(activityLogCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Index creation is best effort; listings still work without it.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})

	return &activityLogRepository{col: col, logger: logger}
}

// Insert records one audit entry. Errors are reported to the caller but
// the caller is expected to treat them as non-fatal.
func (r *activityLogRepository) Insert(ctx context.Context, log *entity.ActivityLog) error {
	doc := activityLogDocument{
		Username:   log.Username,
		Role:       log.Role,
		Method:     log.Method,
		Path:       log.Path,
		StatusCode: log.StatusCode,
		IP:         log.IP,
		UserAgent:  log.UserAgent,
		CreatedAt:  log.CreatedAt,
	}
	if log.UserID != uuid.Nil {
		doc.UserID = log.UserID.String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Find retrieves audit entries matching the query, newest first.
func (r *activityLogRepository) Find(ctx context.Context, query repository.ActivityLogQuery) ([]*entity.ActivityLog, error) {
	filter := bson.M{}
	if query.Username != "" {
		filter["username"] = query.Username
	}
	if query.Role != "" {
		filter["role"] = query.Role
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}
	if limit > maxFindLimit {
		limit = maxFindLimit
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cursor.Close(ctx)

	var docs []activityLogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.WithStack(err)
	}

	logs := make([]*entity.ActivityLog, 0, len(docs))
	for _, doc := range docs {
		log := &entity.ActivityLog{
			ID:         doc.ID.Hex(),
			Username:   doc.Username,
			Role:       doc.Role,
			Method:     doc.Method,
			Path:       doc.Path,
			StatusCode: doc.StatusCode,
			IP:         doc.IP,
			UserAgent:  doc.UserAgent,
			CreatedAt:  doc.CreatedAt,
		}
		if doc.UserID != "" {
			if id, err := uuid.Parse(doc.UserID); err == nil {
				log.UserID = id
			}
		}
		logs = append(logs, log)
	}

	return logs, nil
}
