package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantcare/internal/models/db_models"
)

// PaymentStatsRow aggregates payment outcomes for the admin stats endpoint.
type PaymentStatsRow struct {
	TotalCount   int64
	SuccessCount int64
	FailedCount  int64
	PendingCount int64
	TotalRevenue int64
}

type IPaymentRepository interface {
	Create(ctx context.Context, payment *db_models.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*db_models.Payment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error)
	FindAll(ctx context.Context, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error)
	UpdateByOrderID(ctx context.Context, orderID string, fields map[string]interface{}) (*db_models.Payment, error)
	Stats(ctx context.Context, since time.Time) (*PaymentStatsRow, error)
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) IPaymentRepository {
	return &PaymentRepository{db: db}
}

func (p *PaymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	return p.db.WithContext(ctx).Create(payment).Error
}

func (p *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*db_models.Payment, error) {

	var payment db_models.Payment
	err := p.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (p *PaymentRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error) {

	q := p.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var payments []db_models.Payment
	err := q.Order("created_at DESC").Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (p *PaymentRepository) FindAll(ctx context.Context, status *db_models.PaymentStatus, limit int) ([]db_models.Payment, error) {

	q := p.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var payments []db_models.Payment
	err := q.Order("created_at DESC").Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// UpdateByOrderID applies a partial update and returns the refreshed row,
// or nil when no payment carries the order id.
func (p *PaymentRepository) UpdateByOrderID(ctx context.Context, orderID string, fields map[string]interface{}) (*db_models.Payment, error) {

	res := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(fields)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return p.FindByOrderID(ctx, orderID)
}

func (p *PaymentRepository) Stats(ctx context.Context, since time.Time) (*PaymentStatsRow, error) {

	var row PaymentStatsRow
	err := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Select(`COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE status = 'SUCCESS') AS success_count,
			COUNT(*) FILTER (WHERE status = 'FAILED') AS failed_count,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'SUCCESS'), 0) AS total_revenue`).
		Where("created_at >= ?", since.Unix()).
		Scan(&row).Error

	if err != nil {
		return nil, err
	}

	return &row, nil
}
