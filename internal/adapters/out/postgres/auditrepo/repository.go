package auditrepo

import (
	"context"

	"cafe/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditLog implements ports.AuditLog using GORM.
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new GORM audit log.
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{
		db: db,
	}
}

var _ ports.AuditLog = (*GormAuditLog)(nil)

// Migrate creates or updates the audit tables.
func (r *GormAuditLog) Migrate() error {
	return r.db.AutoMigrate(&SnapshotDTO{}, &TypeCountDTO{})
}

// Append persists one observation with its per-type tallies.
func (r *GormAuditLog) Append(ctx context.Context, snapshot ports.CafeSnapshot) error {
	dto := fromSnapshot(snapshot)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Recent returns the latest observations, newest first.
func (r *GormAuditLog) Recent(ctx context.Context, limit int) ([]ports.CafeSnapshot, error) {
	var dtos []SnapshotDTO
	err := r.db.WithContext(ctx).
		Preload("Counts").
		Order("taken_at DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]ports.CafeSnapshot, 0, len(dtos))
	for _, dto := range dtos {
		snapshots = append(snapshots, toSnapshot(dto))
	}
	return snapshots, nil
}
