package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []*models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return translate(conn(ctx, r.db).CreateInBatches(tickets, 100).Error)
}

func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := conn(ctx, r.db).First(&ticket, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) LockNumbering(ctx context.Context, prefix string) error {
	return translate(conn(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "ticket:"+prefix).Error)
}

func (r *ticketRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	var ticket models.Ticket
	err := conn(ctx, r.db).Unscoped().Select("number").
		Where("number LIKE ?", likePrefix(prefix)).
		Order("number DESC").
		Take(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", translate(err)
	}
	return ticket.Number, nil
}

func (r *ticketRepository) redeemable(ctx context.Context, ownerID uint, day time.Time) *gorm.DB {
	d := day.Format(dateLayout)
	return conn(ctx, r.db).Model(&models.Ticket{}).
		Where("owner_id = ? AND status = ? AND valid_from <= ? AND valid_until >= ?",
			ownerID, models.TicketAvailable, d, d)
}

func (r *ticketRepository) FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.redeemable(ctx, ownerID, day).Order("valid_until, number").First(&ticket).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error) {
	var count int64
	if err := r.redeemable(ctx, ownerID, day).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *ticketRepository) MarkConsumed(ctx context.Context, id uint, day, at time.Time, restaurantID, validatorID uint) (bool, error) {
	d := day.Format(dateLayout)
	result := conn(ctx, r.db).Model(&models.Ticket{}).
		Where("id = ? AND status = ? AND valid_from <= ? AND valid_until >= ?", id, models.TicketAvailable, d, d).
		Updates(map[string]interface{}{
			"status":        models.TicketConsumed,
			"consumed_at":   at,
			"restaurant_id": restaurantID,
			"validated_by":  validatorID,
		})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ticketRepository) MarkCancelled(ctx context.Context, id uint) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Ticket{}).
		Where("id = ? AND status <> ?", id, models.TicketConsumed).
		Update("status", models.TicketCancelled)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ticketRepository) CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Ticket{}).
		Where("purchase_id = ? AND status <> ?", purchaseID, models.TicketConsumed).
		Update("status", models.TicketCancelled)
	return result.RowsAffected, translate(result.Error)
}

func (r *ticketRepository) CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Ticket{}).
		Where("purchase_id = ? AND status = ?", purchaseID, models.TicketConsumed).
		Count(&count).Error
	return count, translate(err)
}

func (r *ticketRepository) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Ticket{}).
		Where("status = ? AND valid_until < ?", models.TicketAvailable, day.Format(dateLayout)).
		Update("status", models.TicketExpired)
	return result.RowsAffected, translate(result.Error)
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID uint, status models.TicketStatus, offset, limit int) ([]models.Ticket, int64, error) {
	var tickets []models.Ticket
	var total int64

	q := conn(ctx, r.db).Model(&models.Ticket{}).Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if err := q.Order("number DESC").Offset(offset).Limit(limit).Find(&tickets).Error; err != nil {
		return nil, 0, translate(err)
	}
	return tickets, total, nil
}

// likePrefix escapes LIKE metacharacters in prefix and appends a wildcard.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
