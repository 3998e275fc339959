package repo

import (
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// Get returns the stored value for key or storage.ErrNotFound.
func (r *Repository) Get(key string) (string, error) {
	var setting models.Setting
	res := r.db.Where(&models.Setting{Key: key}).Limit(1).Find(&setting)
	if res.Error != nil {
		return "", errors.Wrapf(res.Error, "failed to read setting %q", key)
	}
	if res.RowsAffected == 0 {
		return "", storage.ErrNotFound
	}
	return setting.Value, nil
}

// Set upserts key in a single statement.
func (r *Repository) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

func (r *Repository) Delete(key string) error {
	return r.db.Where(&models.Setting{Key: key}).Delete(&models.Setting{}).Error
}

func (r *Repository) ListSettings() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
