package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodAllTime Period = "ALL_TIME"
)

func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "weekly", "week":
		return PeriodWeekly, nil
	case "monthly", "month":
		return PeriodMonthly, nil
	case "alltime", "all_time", "all":
		return PeriodAllTime, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// PeriodBaseline is the asset value a weekly or monthly return is measured
// against. It is overwritten in place at period boundaries, never historized.
type PeriodBaseline struct {
	AccountId uuid.UUID       `json:"accountId"`
	Period    Period          `json:"period"`
	Assets    decimal.Decimal `json:"assets"`
	ResetOn   time.Time       `json:"resetOn"`
}
