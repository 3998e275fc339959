package repo

import (
	"errors"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	repotypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/repo"

	"gorm.io/gorm"
)

var ErrNilDatabase = errors.New("database cannot be nil")

var _ repotypes.Repository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Setting{},
		&models.ImportLog{},
	)
}
