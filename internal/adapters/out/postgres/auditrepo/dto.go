// Package auditrepo persists the cafe's audit trail of state snapshots.
// Each observation becomes one snapshot row plus one row per item type,
// keeping the trail queryable with plain SQL.
package auditrepo

import (
	"time"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/google/uuid"
)

// SnapshotDTO represents the database structure for one cafe observation.
type SnapshotDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TakenAt          time.Time      `gorm:"not null;index"`
	CustomersInCafe  int            `gorm:"type:int;not null"`
	CustomersWaiting int            `gorm:"type:int;not null"`
	ActiveOrders     int            `gorm:"type:int;not null"`
	Counts           []TypeCountDTO `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for snapshot entities.
func (SnapshotDTO) TableName() string {
	return "cafe_snapshots"
}

// TypeCountDTO represents the per-type tallies of one snapshot.
type TypeCountDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SnapshotID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType      string    `gorm:"type:varchar(64);not null"`
	Waiting       int       `gorm:"type:int;not null"`
	Preparing     int       `gorm:"type:int;not null"`
	Ready         int       `gorm:"type:int;not null"`
	SlotsOccupied int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for per-type tally entities.
func (TypeCountDTO) TableName() string {
	return "cafe_snapshot_counts"
}

// fromSnapshot converts one observation to its database representation.
func fromSnapshot(snapshot ports.CafeSnapshot) SnapshotDTO {
	snapshotID := uuid.New()

	counts := make([]TypeCountDTO, 0, len(snapshot.Counts))
	for t, typeSnapshot := range snapshot.Counts {
		counts = append(counts, TypeCountDTO{
			ID:            uuid.New(),
			SnapshotID:    snapshotID,
			ItemType:      string(t),
			Waiting:       typeSnapshot.Waiting,
			Preparing:     typeSnapshot.Preparing,
			Ready:         typeSnapshot.Ready,
			SlotsOccupied: typeSnapshot.SlotsOccupied,
		})
	}

	return SnapshotDTO{
		ID:               snapshotID,
		TakenAt:          snapshot.TakenAt,
		CustomersInCafe:  snapshot.Presence.InCafe,
		CustomersWaiting: snapshot.Presence.WaitingOrders,
		ActiveOrders:     snapshot.ActiveOrders,
		Counts:           counts,
	}
}

// toSnapshot converts a database DTO back to an observation.
func toSnapshot(dto SnapshotDTO) ports.CafeSnapshot {
	counts := make(map[item.Type]ports.TypeSnapshot, len(dto.Counts))
	for _, c := range dto.Counts {
		counts[item.Type(c.ItemType)] = ports.TypeSnapshot{
			StateTally: order.StateTally{
				Waiting:   c.Waiting,
				Preparing: c.Preparing,
				Ready:     c.Ready,
			},
			SlotsOccupied: c.SlotsOccupied,
		}
	}

	return ports.CafeSnapshot{
		TakenAt: dto.TakenAt,
		Presence: ports.PresenceCounts{
			InCafe:        dto.CustomersInCafe,
			WaitingOrders: dto.CustomersWaiting,
		},
		ActiveOrders: dto.ActiveOrders,
		Counts:       counts,
	}
}
