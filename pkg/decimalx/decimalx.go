package decimalx

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrZeroBase = errors.New("decimalx: zero base")

var hundred = decimal.NewFromInt(100)

func MustFromString(s string) decimal.Decimal {
	f, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ChangeRatio 计算 (current - base) / base, base 为 0 时返回 ErrZeroBase
func ChangeRatio(current, base decimal.Decimal) (decimal.Decimal, error) {
	if base.IsZero() {
		return decimal.Zero, ErrZeroBase
	}
	return current.Sub(base).Div(base), nil
}

// Percent 将比例转换为百分比, 0.06 -> 6
func Percent(ratio decimal.Decimal) decimal.Decimal {
	return ratio.Mul(hundred)
}

// ParsePositive 解析严格为正的价格
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("decimalx: non-positive value " + s)
	}
	return d, nil
}
