package repo

import (
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	repotypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/repo"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrImportLogNotFound = errors.New("import log not found")

func (r *Repository) CreateImportLog(entry *models.ImportLog) error {
	return r.db.Create(entry).Error
}

// UpdateImportLog saves the outcome of an entry created earlier.
func (r *Repository) UpdateImportLog(entry *models.ImportLog) error {
	if entry.ID == 0 {
		return errors.New("import log has no id")
	}
	return r.db.Save(entry).Error
}

func (r *Repository) GetImportLogByID(id int64) (*models.ImportLog, error) {
	var entry models.ImportLog
	err := r.db.First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrImportLogNotFound, "id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListImportLogs returns matching entries, newest first.
func (r *Repository) ListImportLogs(filter repotypes.ImportLogFilter) ([]models.ImportLog, error) {
	q := r.db.Model(&models.ImportLog{})
	if filter.Mode != "" {
		q = q.Where("mode = ?", filter.Mode)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Owner != "" {
		q = q.Where("owner = ?", filter.Owner)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	logs := []models.ImportLog{}
	if err := q.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// PruneImportLogs keeps the newest keep entries and deletes the rest.
func (r *Repository) PruneImportLogs(keep int) (int64, error) {
	if keep <= 0 {
		res := r.db.Where("1 = 1").Delete(&models.ImportLog{})
		return res.RowsAffected, res.Error
	}
	newest := r.db.Model(&models.ImportLog{}).
		Select("id").
		Order("created_at DESC, id DESC").
		Limit(keep)
	res := r.db.Where("id NOT IN (?)", newest).Delete(&models.ImportLog{})
	return res.RowsAffected, res.Error
}
