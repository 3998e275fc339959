package repo

import (
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"
)

// ImportLogFilter narrows an import log listing. Zero fields match
// everything.
type ImportLogFilter struct {
	Mode   string
	Status string
	Owner  string
	Limit  int
}

type Repository interface {
	storage.KV

	CreateImportLog(entry *models.ImportLog) error
	UpdateImportLog(entry *models.ImportLog) error
	GetImportLogByID(id int64) (*models.ImportLog, error)
	ListImportLogs(filter ImportLogFilter) ([]models.ImportLog, error)
	PruneImportLogs(keep int) (int64, error)
}
