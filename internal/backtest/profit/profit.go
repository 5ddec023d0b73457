// Package profit turns completed positions into account balances.
//
// Every position is fully invested: the entry fee is taken from the running
// balance and what remains follows the asset price from entry to exit.
package profit

import (
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/backtest/commission_fee"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// FinalBalance applies each position in order to initialBalance and returns the result.
func FinalBalance(positions []types.Position, initialBalance float64, fee commission_fee.CommissionFee) (float64, error) {
	balance := initialBalance

	for _, p := range positions {
		if err := validatePosition(p); err != nil {
			return 0, err
		}

		balance -= fee.Calculate(balance)
		balance *= p.EndPrice / p.StartPrice
	}

	return balance, nil
}

// EquityCurve returns the balance at every point of series.
//
// The balance is flat at initialBalance until the first entry. On each entry the
// fee is deducted and, through the exit inclusive, the balance tracks
// series[t] / series[entry] times the post-fee balance. After the exit it stays
// flat until the next entry or the end of the series.
//
// Every position date must be a timestamp of series.
func EquityCurve(positions []types.Position, series []types.PricePoint, initialBalance float64, fee commission_fee.CommissionFee) ([]types.EquityPoint, error) {
	if len(series) == 0 {
		if len(positions) > 0 {
			return nil, errors.NewInsufficientDataErrorf(1, 0, "equity curve needs a price series covering %d positions", len(positions))
		}

		return nil, nil
	}

	index := make(map[int64]int, len(series))
	for i, point := range series {
		index[point.Time.UnixNano()] = i
	}

	curve := make([]types.EquityPoint, len(series))
	balance := initialBalance
	cursor := 0

	for _, p := range positions {
		if err := validatePosition(p); err != nil {
			return nil, err
		}

		start, err := lookup(index, p.StartDate)
		if err != nil {
			return nil, err
		}

		end, err := lookup(index, p.EndDate)
		if err != nil {
			return nil, err
		}

		if start < cursor {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"position starting %s overlaps the previous position", p.StartDate)
		}

		for ; cursor < start; cursor++ {
			curve[cursor] = types.EquityPoint{Time: series[cursor].Time, Balance: balance}
		}

		invested := balance - fee.Calculate(balance)
		entryPrice := series[start].Price

		if entryPrice <= 0 {
			return nil, errors.Newf(errors.ErrCodeDataIntegrity, "non-positive price %v at %s", entryPrice, p.StartDate)
		}

		for ; cursor <= end; cursor++ {
			curve[cursor] = types.EquityPoint{
				Time:    series[cursor].Time,
				Balance: invested * (series[cursor].Price / entryPrice),
			}
		}

		balance = curve[end].Balance
	}

	for ; cursor < len(series); cursor++ {
		curve[cursor] = types.EquityPoint{Time: series[cursor].Time, Balance: balance}
	}

	return curve, nil
}

// BuyAndHold is the balance of investing initialBalance at the first price of
// series and holding to the last, without fees.
func BuyAndHold(series []types.PricePoint, initialBalance float64) (float64, error) {
	if len(series) == 0 {
		return 0, errors.NewInsufficientDataErrorf(1, 0, "buy and hold benchmark needs at least one price")
	}

	first := series[0].Price
	if first <= 0 {
		return 0, errors.Newf(errors.ErrCodeDataIntegrity, "non-positive first price %v at %s", first, series[0].Time)
	}

	return initialBalance * series[len(series)-1].Price / first, nil
}

func validatePosition(p types.Position) error {
	if p.StartPrice <= 0 || p.EndPrice <= 0 {
		return errors.Newf(errors.ErrCodeDataIntegrity,
			"position %s-%s has non-positive price (start=%v end=%v)", p.StartDate, p.EndDate, p.StartPrice, p.EndPrice)
	}

	if !p.StartDate.Before(p.EndDate) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "position starts at %s but ends at %s", p.StartDate, p.EndDate)
	}

	return nil
}

func lookup(index map[int64]int, t time.Time) (int, error) {
	i, ok := index[t.UnixNano()]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeTimestampNotFound, "timestamp %s is not part of the price series", t)
	}

	return i, nil
}
