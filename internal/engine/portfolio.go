package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"papertrade/types"
)

var (
	ErrUnknownSide = errors.New("unknown trade side")
	ErrOversell    = errors.New("sell quantity exceeds held quantity")
)

// portfolio is the transient replay state: cash plus derived holdings. It is
// rebuilt from the ledger on every reconstruction and never persisted.
type portfolio struct {
	cash     decimal.Decimal
	holdings map[string]*types.Holding
	// deposited accumulates bonus credits; they grow the capital base, so
	// returns measure trading performance rather than counting a bonus as
	// profit.
	deposited decimal.Decimal
}

func newPortfolio(startingCapital decimal.Decimal) *portfolio {
	return &portfolio{
		cash:     startingCapital,
		holdings: make(map[string]*types.Holding),
	}
}

// apply folds one ledger event into the state. The ledger is ground truth, so
// cash may go negative without error; an oversell however means the derived
// state no longer matches the ledger and aborts the replay.
func (p *portfolio) apply(e types.TradeEvent) error {
	switch e.Side {
	case types.SideTypeBuy:
		qty := decimal.NewFromInt(e.Quantity)
		p.cash = p.cash.Sub(e.Price.Mul(qty)).Sub(e.Fee)

		pos := p.holdings[e.SecurityId]
		if pos == nil {
			pos = &types.Holding{SecurityId: e.SecurityId}
			p.holdings[e.SecurityId] = pos
		}
		pos.AvgCost = weightedAvg(pos.AvgCost, decimal.NewFromInt(pos.Quantity), e.Price, qty)
		pos.Quantity += e.Quantity

	case types.SideTypeSell:
		pos := p.holdings[e.SecurityId]
		if pos == nil || pos.Quantity < e.Quantity {
			return fmt.Errorf("%s sell %d on %s: %w", e.SecurityId, e.Quantity,
				e.ExecutedAt.Format(types.DayFormat), ErrOversell)
		}
		qty := decimal.NewFromInt(e.Quantity)
		p.cash = p.cash.Add(e.Price.Mul(qty)).Sub(e.Fee)

		// Cost basis only changes on acquisition; a sell just shrinks the
		// position and drops it entirely at zero.
		pos.Quantity -= e.Quantity
		if pos.Quantity == 0 {
			delete(p.holdings, e.SecurityId)
		}

	case types.SideTypeDeposit:
		p.cash = p.cash.Add(e.Price)
		p.deposited = p.deposited.Add(e.Price)

	default:
		return fmt.Errorf("side %q: %w", e.Side, ErrUnknownSide)
	}
	return nil
}

// holdingsList returns the open holdings ordered by security id so valuation
// walks them deterministically.
func (p *portfolio) holdingsList() []types.Holding {
	list := make([]types.Holding, 0, len(p.holdings))
	for _, h := range p.holdings {
		list = append(list, *h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SecurityId < list[j].SecurityId })
	return list
}

func weightedAvg(existingAvgPrice, existingQty, newPrice, newQty decimal.Decimal) decimal.Decimal {
	if existingQty.IsZero() {
		return newPrice
	}
	return existingAvgPrice.Mul(existingQty).
		Add(newPrice.Mul(newQty)).
		Div(existingQty.Add(newQty))
}
