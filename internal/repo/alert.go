package repo

import (
	"context"
	"time"

	"github.com/KNICEX/price-alert/internal/entity"
	"gorm.io/gorm"
)

type AlertRepo interface {
	Create(ctx context.Context, alert entity.Alert) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status int) error
	FindRecent(ctx context.Context, symbol string, limit int) ([]entity.Alert, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepo {
	return &alertRepo{
		db: db,
	}
}

func (r *alertRepo) Create(ctx context.Context, alert entity.Alert) (int64, error) {
	err := r.db.WithContext(ctx).Create(&alert).Error
	if err != nil {
		return 0, err
	}
	return alert.Id, nil
}

func (r *alertRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	return r.db.WithContext(ctx).Model(&entity.Alert{}).Where("id = ?", id).Update("status", status).Error
}

// FindRecent 按时间倒序, symbol 为空时不过滤
func (r *alertRepo) FindRecent(ctx context.Context, symbol string, limit int) ([]entity.Alert, error) {
	var alerts []entity.Alert
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Alert{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}
