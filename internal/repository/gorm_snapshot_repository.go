package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatshell-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormSnapshotRepository 是 SnapshotRepository 的 GORM 实现，MySQL 与 SQLite 共用。
type gormSnapshotRepository struct {
	db        *gorm.DB
	keyPrefix string
}

// NewGormSnapshotRepository 创建一个新的 GORM SnapshotRepository，并确保 snapshots 表存在。
func NewGormSnapshotRepository(db *gorm.DB, keyPrefix string) (SnapshotRepository, error) {
	if err := db.AutoMigrate(&model.SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}
	return &gormSnapshotRepository{db: db, keyPrefix: keyPrefix}, nil
}

// Load 根据名称查询快照记录。
func (r *gormSnapshotRepository) Load(ctx context.Context, name string) ([]byte, error) {
	var record model.SnapshotRecord
	err := r.db.WithContext(ctx).Where("name = ?", r.keyPrefix+name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot %s: %w", name, err)
	}
	return record.Payload, nil
}

// Save 以 upsert 的方式覆盖快照记录。
func (r *gormSnapshotRepository) Save(ctx context.Context, name string, data []byte) error {
	record := model.SnapshotRecord{
		Name:      r.keyPrefix + name,
		Payload:   data,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

// Delete 删除快照记录。
func (r *gormSnapshotRepository) Delete(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).Where("name = ?", r.keyPrefix+name).Delete(&model.SnapshotRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	return nil
}
