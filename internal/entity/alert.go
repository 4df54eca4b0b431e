package entity

import (
	"time"
)

// Alert 已触发的价格告警记录, 仅作审计, 不会回填到价格状态
type Alert struct {
	Id             int64  `gorm:"primaryKey;autoIncrement"`
	Symbol         string `gorm:"index"`
	BaseSymbol     string `gorm:"index"`
	QuoteSymbol    string `gorm:"index"`
	AlertType      string `gorm:"index"`
	CurrentPrice   string
	ReferencePrice string
	ChangePercent  float64
	Status         int       `gorm:"index"` // 0: 待发送, 1: 已发送, 2: 发送失败
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

const (
	AlertStatusPending   = 0
	AlertStatusDelivered = 1
	AlertStatusFailed    = 2
)
