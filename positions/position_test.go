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

package positions_test

import (
	"fmt"
	"testing"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/positions"
	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audusd() *types.Instrument {
	return &types.Instrument{
		ID:             "AUD/USD.SIM",
		BaseCurrency:   "AUD",
		QuoteCurrency:  "USD",
		PricePrecision: 5,
		PriceIncrement: num.NewUint(1),
		SizeIncrement:  1,
		Multiplier:     num.DecimalOne(),
	}
}

func xbtusd() *types.Instrument {
	return &types.Instrument{
		ID:             "XBTUSD.BITMEX",
		BaseCurrency:   "BTC",
		QuoteCurrency:  "USD",
		IsInverse:      true,
		PricePrecision: 1,
		PriceIncrement: num.NewUint(5),
		SizeIncrement:  1,
		Multiplier:     num.DecimalOne(),
	}
}

var tradeSeq int

func fill(inst *types.Instrument, orderID string, side types.Side, qty uint64, px, commission string) *types.OrderEvent {
	tradeSeq++
	ccy := inst.CostCurrency()
	return &types.OrderEvent{
		Type:          types.OrderEventFilled,
		TraderID:      "TRADER-001",
		StrategyID:    "S-001",
		AccountID:     "SIM-001",
		InstrumentID:  inst.ID,
		ClientOrderID: orderID,
		Fill: &types.Fill{
			TradeID:       fmt.Sprintf("T-%d", tradeSeq),
			Side:          side,
			OrderType:     types.OrderTypeMarket,
			LastQty:       qty,
			LastPx:        inst.MustPrice(px),
			Currency:      inst.QuoteCurrency,
			Commission:    types.NewMoney(num.MustDecimalFromString(commission), ccy),
			LiquiditySide: types.LiquiditySideTaker,
		},
		TsEvent: int64(tradeSeq) * 1000,
	}
}

func dec(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func TestPositionLifecycle(t *testing.T) {
	t.Run("open long", testOpenLong)
	t.Run("open short", testOpenShort)
	t.Run("buy then sell closes", testBuyThenSell)
	t.Run("partial closes average the close price", testPartialCloses)
	t.Run("closed position reopens", testReopen)
	t.Run("duplicate trade id", testDuplicateTradeID)
	t.Run("inverse pnl", testInversePnL)
}

func testOpenLong(t *testing.T) {
	inst := audusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideBuy, 100000, "1.00001", "2"))
	require.NoError(t, err)

	assert.Equal(t, types.PositionSideLong, p.Side())
	assert.Equal(t, types.SideBuy, p.Entry())
	assert.Equal(t, int64(100000), p.SignedQty())
	assert.Equal(t, uint64(100000), p.Quantity())
	assert.Equal(t, uint64(100000), p.PeakQty())
	assert.True(t, p.AvgPxOpen().Equal(dec("1.00001")))
	assert.True(t, p.RealizedPnL().Amount.Equal(dec("-2")))
	assert.Equal(t, "O-1", p.OpeningOrderID())
	assert.True(t, p.IsOpen())

	upnl := p.UnrealizedPnL(inst.MustPrice("1.00050"))
	assert.True(t, upnl.Amount.Equal(dec("49")), upnl.String())
	assert.True(t, p.TotalPnL(inst.MustPrice("1.00050")).Amount.Equal(dec("47")))
	assert.True(t, p.NotionalValue(inst.MustPrice("1.00000")).Amount.Equal(dec("100000")))
	require.Len(t, p.Commissions(), 1)
	assert.Equal(t, "USD", p.Commissions()[0].Currency)
}

func testOpenShort(t *testing.T) {
	inst := audusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideSell, 50000, "1.00000", "0"))
	require.NoError(t, err)
	assert.Equal(t, types.PositionSideShort, p.Side())
	assert.Equal(t, int64(-50000), p.SignedQty())
	// short loses when the price rises
	assert.True(t, p.UnrealizedPnL(inst.MustPrice("1.00010")).Amount.Equal(dec("-5")))
}

func testBuyThenSell(t *testing.T) {
	inst := audusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideBuy, 100000, "1.00001", "2"))
	require.NoError(t, err)
	require.NoError(t, p.Apply(fill(inst, "O-2", types.SideSell, 100000, "1.00011", "2")))

	assert.Equal(t, types.PositionSideFlat, p.Side())
	assert.True(t, p.IsClosed())
	assert.Equal(t, uint64(0), p.Quantity())
	assert.Equal(t, uint64(100000), p.PeakQty())
	assert.Equal(t, "O-2", p.ClosingOrderID())
	assert.True(t, p.AvgPxClose().Equal(dec("1.00011")))
	assert.True(t, p.RealizedPnL().Amount.Equal(dec("6")), p.RealizedPnL().String())
	assert.True(t, p.RealizedReturn().Equal(dec("0.0001").Div(dec("1.00001"))))
	assert.True(t, p.UnrealizedPnL(inst.MustPrice("1.00050")).IsZero())

	snap := p.Snapshot(types.PositionEventClosed, nil)
	assert.Equal(t, int64(1000), snap.DurationNs)
}

func testPartialCloses(t *testing.T) {
	inst := audusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideBuy, 100000, "1.00001", "0"))
	require.NoError(t, err)
	require.NoError(t, p.Apply(fill(inst, "O-2", types.SideSell, 50000, "1.00011", "0")))
	assert.Equal(t, types.PositionSideLong, p.Side())
	assert.True(t, p.RealizedPnL().Amount.Equal(dec("5")))
	require.NoError(t, p.Apply(fill(inst, "O-3", types.SideSell, 50000, "1.00021", "0")))

	assert.True(t, p.IsClosed())
	assert.True(t, p.AvgPxClose().Equal(dec("1.00016")), p.AvgPxClose().String())
	assert.True(t, p.RealizedPnL().Amount.Equal(dec("15")))
}

func testReopen(t *testing.T) {
	inst := audusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideBuy, 100000, "1.00000", "1"))
	require.NoError(t, err)
	require.NoError(t, p.Apply(fill(inst, "O-2", types.SideSell, 100000, "1.00010", "1")))
	require.NoError(t, p.Apply(fill(inst, "O-3", types.SideBuy, 20000, "1.00020", "1")))

	assert.True(t, p.IsLong())
	assert.Equal(t, "O-3", p.OpeningOrderID())
	assert.Empty(t, p.ClosingOrderID())
	assert.Equal(t, uint64(20000), p.PeakQty())
	assert.True(t, p.AvgPxOpen().Equal(dec("1.0002")))
	assert.True(t, p.RealizedPnL().Amount.Equal(dec("-1")))
}

func testDuplicateTradeID(t *testing.T) {
	inst := audusd()
	f := fill(inst, "O-1", types.SideBuy, 100, "1.00000", "0")
	p, err := positions.NewPosition(inst, "P-1", f)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Apply(f), positions.ErrDuplicateTradeID)
	assert.Equal(t, uint64(100), p.Quantity())
}

func testInversePnL(t *testing.T) {
	inst := xbtusd()
	p, err := positions.NewPosition(inst, "P-1", fill(inst, "O-1", types.SideBuy, 100000, "10000.0", "0"))
	require.NoError(t, err)
	assert.Equal(t, "BTC", p.SettlementCurrency())

	upnl := p.UnrealizedPnL(inst.MustPrice("11000.0"))
	assert.Equal(t, "BTC", upnl.Currency)
	assert.Equal(t, "0.90909091", upnl.Amount.Round(8).String())
	assert.True(t, p.NotionalValue(inst.MustPrice("10000.0")).Amount.Equal(dec("10")))

	require.NoError(t, p.Apply(fill(inst, "O-2", types.SideSell, 100000, "11000.0", "0")))
	assert.Equal(t, "0.90909091", p.RealizedPnL().Amount.Round(8).String())
}
