package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows audit listings. Zero fields are ignored.
type AuditFilter struct {
	UserID *uint
	Action models.AuditAction
	Entity string
	From   time.Time
	To     time.Time
	Offset int
	Limit  int
}

type AuditRepository interface {
	// Create stores the entry. An entry whose EventID was already stored is
	// ignored, so redelivered events are recorded once.
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if entry.EventID != "" {
		var count int64
		err := conn(ctx, r.db).Model(&models.AuditEntry{}).Where("event_id = ?", entry.EventID).Count(&count).Error
		if err != nil {
			return translate(err)
		}
		if count > 0 {
			return nil
		}
	}
	return translate(conn(ctx, r.db).Create(entry).Error)
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry
	var total int64

	q := conn(ctx, r.db).Model(&models.AuditEntry{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if err := q.Order("created_at DESC").Offset(filter.Offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, translate(err)
	}
	return entries, total, nil
}
