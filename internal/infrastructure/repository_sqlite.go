package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/tubefetch/internal/domain"
)

// SQLiteAttemptRepository implements AttemptRepository using SQLite
type SQLiteAttemptRepository struct {
	db *gorm.DB
}

// NewSQLiteAttemptRepository opens (or creates) the history database at dbPath
func NewSQLiteAttemptRepository(dbPath string) (*SQLiteAttemptRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Attempt{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteAttemptRepository{db: db}, nil
}

// Create stores one attempt
func (r *SQLiteAttemptRepository) Create(attempt *domain.Attempt) error {
	return r.db.Create(attempt).Error
}

// FindByBatch returns the attempts of a batch in input order
func (r *SQLiteAttemptRepository) FindByBatch(batchID string) ([]*domain.Attempt, error) {
	var attempts []*domain.Attempt
	err := r.db.Where("batch_id = ?", batchID).
		Order("started_at ASC, rowid ASC").
		Find(&attempts).Error
	return attempts, err
}

// FindRecent returns the newest attempts first. limit <= 0 means no limit.
func (r *SQLiteAttemptRepository) FindRecent(limit int, onlyFailed bool) ([]*domain.Attempt, error) {
	var attempts []*domain.Attempt
	query := r.db.Order("finished_at DESC, rowid DESC")
	if onlyFailed {
		query = query.Where("succeeded = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

// GetStats returns aggregate counts over the whole history
func (r *SQLiteAttemptRepository) GetStats() (*domain.AttemptStats, error) {
	stats := &domain.AttemptStats{}

	if err := r.db.Model(&domain.Attempt{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&domain.Attempt{}).
		Where("succeeded = ?", true).
		Count(&stats.Succeeded).Error; err != nil {
		return nil, err
	}
	stats.Failed = stats.Total - stats.Succeeded

	if err := r.db.Model(&domain.Attempt{}).
		Where("failure_kind = ?", domain.FailureInvalid).
		Count(&stats.Invalid).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&domain.Attempt{}).
		Distinct("batch_id").
		Count(&stats.Batches).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteAttemptRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
