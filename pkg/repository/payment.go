package repository

import (
	"context"
	"errors"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"gorm.io/gorm"
)

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	FindPendingByOrder(ctx context.Context, orderID, gateway string) (*models.Payment, error)
	ListPending(ctx context.Context, limit int) ([]models.Payment, error)

	// UpdateByReference applies the given columns as a single UPDATE so a
	// webhook never leaves status and meta inconsistent with each other.
	UpdateByReference(ctx context.Context, reference string, updates map[string]interface{}) (*models.Payment, error)
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_reference = ?", reference).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindPendingByOrder(ctx context.Context, orderID, gateway string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND gateway = ? AND status = ?", orderID, gateway, models.PaymentStatusPending).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListPending(ctx context.Context, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PaymentStatusPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) UpdateByReference(ctx context.Context, reference string, updates map[string]interface{}) (*models.Payment, error) {
	payment, err := r.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(payment).Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return r.FindByReference(ctx, reference)
}
