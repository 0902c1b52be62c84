// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package matching_test

import (
	"testing"

	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (te *testEngine) bar(spec types.BarSpec, open, high, low, cls string, volume uint64, ts int64) *types.Bar {
	return &types.Bar{
		BarType: types.BarType{InstrumentID: te.inst.ID, Spec: spec},
		Open:    te.px(open),
		High:    te.px(high),
		Low:     te.px(low),
		Close:   te.px(cls),
		Volume:  volume,
		TsEvent: ts,
		TsInit:  ts,
	}
}

func restingSell(t *testing.T, te *testEngine, price string) *types.Order {
	t.Helper()
	te.quote(t, "90.002", "90.005", 1_000_000)
	o := te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideSell,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.px(price),
	})
	require.Equal(t, types.OrderStatusAccepted, o.Status)
	return o
}

func TestBarExecution(t *testing.T) {
	minute := types.BarSpec{Step: 1, Aggregation: types.BarAggregationMinute, PriceType: types.PriceTypeLast}

	t.Run("trade bar fills a resting order", func(t *testing.T) {
		te := getTestEngine(t, matching.NewDefaultConfig())
		o := restingSell(t, te, "90.008")

		require.NoError(t, te.ProcessBar(te.bar(minute, "90.000", "90.010", "89.990", "90.005", 400_000, 60_000)))

		assert.Equal(t, types.OrderStatusFilled, o.Status)
		f := te.rec.last().Fill
		assert.Equal(t, te.px("90.008"), f.LastPx)
		assert.Equal(t, types.LiquiditySideMaker, f.LiquiditySide)
		assert.Equal(t, te.px("90.005"), te.Core().Last())
	})

	t.Run("disabled bar execution", func(t *testing.T) {
		cfg := matching.NewDefaultConfig()
		cfg.BarExecution = false
		te := getTestEngine(t, cfg)
		o := restingSell(t, te, "90.008")

		require.NoError(t, te.ProcessBar(te.bar(minute, "90.000", "90.010", "89.990", "90.005", 400_000, 60_000)))
		assert.Equal(t, types.OrderStatusAccepted, o.Status)
	})

	t.Run("internal bars are ignored", func(t *testing.T) {
		te := getTestEngine(t, matching.NewDefaultConfig())
		o := restingSell(t, te, "90.008")

		b := te.bar(minute, "90.000", "90.010", "89.990", "90.005", 400_000, 60_000)
		b.BarType.Source = types.AggregationSourceInternal
		require.NoError(t, te.ProcessBar(b))
		assert.Equal(t, types.OrderStatusAccepted, o.Status)
	})

	t.Run("shortest bar drives the execution", func(t *testing.T) {
		te := getTestEngine(t, matching.NewDefaultConfig())
		o := restingSell(t, te, "90.008")

		require.NoError(t, te.ProcessBar(te.bar(minute, "90.000", "90.000", "90.000", "90.000", 400_000, 60_000)))
		assert.Equal(t, types.OrderStatusAccepted, o.Status)

		five := types.BarSpec{Step: 5, Aggregation: types.BarAggregationMinute, PriceType: types.PriceTypeLast}
		require.NoError(t, te.ProcessBar(te.bar(five, "90.000", "90.010", "89.990", "90.005", 400_000, 300_000)))
		assert.Equal(t, types.OrderStatusAccepted, o.Status)

		second := types.BarSpec{Step: 1, Aggregation: types.BarAggregationSecond, PriceType: types.PriceTypeLast}
		require.NoError(t, te.ProcessBar(te.bar(second, "90.000", "90.010", "89.990", "90.005", 400_000, 301_000)))
		assert.Equal(t, types.OrderStatusFilled, o.Status)
	})

	t.Run("bid and ask bars replay as quotes", func(t *testing.T) {
		te := getTestEngine(t, matching.NewDefaultConfig())
		te.quote(t, "90.002", "90.005", 1_000_000)
		o := te.submit(t, types.OrderParams{
			ClientOrderID: "O-1",
			Side:          types.SideBuy,
			Type:          types.OrderTypeLimit,
			Quantity:      100_000,
			Price:         te.px("90.000"),
		})
		require.Equal(t, types.OrderStatusAccepted, o.Status)

		bid := types.BarSpec{Step: 1, Aggregation: types.BarAggregationMinute, PriceType: types.PriceTypeBid}
		ask := types.BarSpec{Step: 1, Aggregation: types.BarAggregationMinute, PriceType: types.PriceTypeAsk}

		require.NoError(t, te.ProcessBar(te.bar(bid, "90.002", "90.004", "89.995", "90.001", 400_000, 60_000)))
		assert.Equal(t, types.OrderStatusAccepted, o.Status)

		require.NoError(t, te.ProcessBar(te.bar(ask, "90.005", "90.007", "89.998", "90.004", 400_000, 60_000)))
		assert.Equal(t, types.OrderStatusFilled, o.Status)
		assert.Equal(t, te.px("90.000"), te.rec.last().Fill.LastPx)
		assert.Equal(t, te.px("90.004"), te.BestAskPrice())
	})
}
