package strategy

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	MildRise   AlertType = "mild_rise"
	StrongRise AlertType = "strong_rise"
	Drop       AlertType = "drop"
)

func (t AlertType) IsRise() bool {
	return t == MildRise || t == StrongRise
}

var (
	ErrInvalidPrice  = errors.New("strategy: non-positive price")
	ErrZeroReference = errors.New("strategy: zero reference price")
)

// AlertEvent 一次阈值触发
type AlertEvent struct {
	Symbol         string          `json:"symbol"`
	Type           AlertType       `json:"type"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
	ChangePercent  decimal.Decimal `json:"change_percent"` // 带符号, 6 表示 +6%
	Timestamp      time.Time       `json:"timestamp"`
}
