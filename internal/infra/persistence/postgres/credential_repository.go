package postgres

import (
	"context"

	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// credentialRepository implements repository.CredentialRepository using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// Create persists a new credential for a user.
func (repo *credentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	credM := fromCredentialDomain(credential)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("credential already exists for user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	credential.ID = credM.ID
	credential.CreatedAt = credM.CreatedAt
	credential.UpdatedAt = credM.UpdatedAt

	return nil
}

// FindByUserID retrieves the credential belonging to a user.
func (repo *credentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by user id")
	}

	return toCredentialDomain(&credM), nil
}

// UpdatePasswordHash replaces the stored hash for a user's credential.
func (repo *credentialRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("user_id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// passwordHistoryRepository implements repository.PasswordHistoryRepository using GORM.
type passwordHistoryRepository struct {
	db *gorm.DB
}

// NewPasswordHistoryRepository is the constructor for passwordHistoryRepository.
func NewPasswordHistoryRepository(db *gorm.DB) repository.PasswordHistoryRepository {
	return &passwordHistoryRepository{db: db}
}

// Add records a password hash at the time it becomes active.
func (repo *passwordHistoryRepository) Add(ctx context.Context, record *entity.PasswordRecord) error {
	recordM := &model.PasswordHistoryModel{
		ID:           record.ID,
		UserID:       record.UserID,
		PasswordHash: record.PasswordHash,
	}

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to add password history entry")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

// Recent returns up to limit history entries for a user, newest first.
func (repo *passwordHistoryRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.PasswordRecord, error) {
	var recordsM []model.PasswordHistoryModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recordsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load password history")
	}

	records := make([]*entity.PasswordRecord, 0, len(recordsM))
	for i := range recordsM {
		records = append(records, &entity.PasswordRecord{
			ID:           recordsM[i].ID,
			UserID:       recordsM[i].UserID,
			PasswordHash: recordsM[i].PasswordHash,
			CreatedAt:    recordsM[i].CreatedAt,
		})
	}

	return records, nil
}

// --- Mapper Functions ---

func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ID:           data.ID,
		UserID:       data.UserID,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ID:           data.ID,
		UserID:       data.UserID,
		PasswordHash: data.PasswordHash,
	}
}
