package sqlite

import (
	"context"

	"harvest/internal/domain/repository"
	"harvest/internal/errors"
	"harvest/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialKey is the fixed keyvalues row that holds the bearer credential.
const credentialKey = "credential"

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a credential repository backed by the
// local keyvalues table.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Load(ctx context.Context) (string, error) {
	var row model.KeyValueModel
	err := r.db.WithContext(ctx).
		Where("key = ?", credentialKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrCredentialNotFound
		}

		return "", errors.Wrap(err, "failed to load credential")
	}

	return row.Value, nil
}

func (r *credentialRepository) Store(ctx context.Context, credential string) error {
	row := model.KeyValueModel{
		Key:   credentialKey,
		Value: credential,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return errors.Wrap(err, "failed to store credential")
	}

	return nil
}

func (r *credentialRepository) Delete(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("key = ?", credentialKey).
		Delete(&model.KeyValueModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete credential")
	}

	return nil
}
