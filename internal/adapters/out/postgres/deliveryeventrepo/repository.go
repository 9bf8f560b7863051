package deliveryeventrepo

import (
	"context"
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryEventRepository implements ports.DeliveryEventRepository using GORM.
type GormDeliveryEventRepository struct {
	db *gorm.DB
}

func NewGormDeliveryEventRepository(db *gorm.DB) *GormDeliveryEventRepository {
	return &GormDeliveryEventRepository{db: db}
}

func (r *GormDeliveryEventRepository) Add(ctx context.Context, event order.DeliveredEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetUnpublished locks the returned rows with FOR UPDATE SKIP LOCKED, so
// concurrent relays never pick up the same event. A row that does not decode is
// quarantined with the reason and left out of the result, so one bad row cannot
// stall the outbox.
func (r *GormDeliveryEventRepository) GetUnpublished(ctx context.Context, limit int) ([]order.DeliveredEvent, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []DeliveryEventDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL AND quarantined_at IS NULL").
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]order.DeliveredEvent, 0, len(dtos))
	for _, dto := range dtos {
		e, convErr := toDomain(dto)
		if convErr != nil {
			if err = r.quarantine(ctx, dto.ID, convErr); err != nil {
				return nil, err
			}
			continue
		}
		events = append(events, e)
	}

	return events, nil
}

func (r *GormDeliveryEventRepository) quarantine(ctx context.Context, id string, cause error) error {
	return r.db.WithContext(ctx).
		Model(&DeliveryEventDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quarantined_at":    gorm.Expr("now()"),
			"quarantine_reason": cause.Error(),
		}).Error
}

func (r *GormDeliveryEventRepository) MarkPublished(ctx context.Context, id kernel.ID, at time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DeliveryEventDTO{}).
		Where("id = ? AND published_at IS NULL", id.String()).
		Update("published_at", at.UTC())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("unpublished delivery event", id.String())
	}

	return nil
}
