package repository

import (
	"database/sql"
	"errors"

	"github.com/caresupportcom/care-schedule/backend/internal/config"
)

// ErrShiftReferenced 表示班次仍被交接记录引用，不允许删除
var ErrShiftReferenced = errors.New("班次存在交接记录，无法删除")

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
