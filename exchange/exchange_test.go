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

package exchange_test

import (
	"context"
	"testing"
	"time"

	"code.vegaprotocol.io/simex/accounts"
	"code.vegaprotocol.io/simex/broker"
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/fee"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/positions"
	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	traderID   = "TRADER-001"
	strategyID = "S-001"
	accountID  = "SIM-001"
)

func audusd() *types.Instrument {
	return &types.Instrument{
		ID:             "AUD/USD.SIM",
		BaseCurrency:   "AUD",
		QuoteCurrency:  "USD",
		PricePrecision: 5,
		PriceIncrement: num.NewUint(1),
		SizeIncrement:  1,
		MaxQuantity:    10_000_000,
		Multiplier:     num.DecimalOne(),
		MarginInit:     num.MustDecimalFromString("0.03"),
		MarginMaint:    num.MustDecimalFromString("0.03"),
		MakerFee:       num.MustDecimalFromString("0.00002"),
		TakerFee:       num.MustDecimalFromString("0.00002"),
	}
}

type testExchange struct {
	*exchange.Exchange
	inst      *types.Instrument
	collector *broker.Collector
	ctx       context.Context
	ts        int64
}

// getTestExchange builds a venue on a margin account holding 1,000,000
// USD, latency is only simulated when latency is not nil.
func getTestExchange(t *testing.T, cfg exchange.Config, latency *models.LatencyConfig) *testExchange {
	t.Helper()
	log := logging.NewTestLogger()

	b := broker.New(log, broker.NewDefaultConfig())
	collector := broker.NewCollector(events.Topic{})
	b.Subscribe(collector)

	pos, err := positions.New(log, positions.NewDefaultConfig(), b)
	require.NoError(t, err)
	acc, err := accounts.New(log, accounts.NewDefaultConfig(), b, traderID, accountID)
	require.NoError(t, err)
	fees, err := fee.New(log, fee.NewDefaultConfig())
	require.NoError(t, err)
	fill, err := models.NewFillModel(models.NewDefaultFillConfig())
	require.NoError(t, err)

	var lat *models.LatencyModel
	if latency != nil {
		cfg.SimulateLatency = true
		lat = models.NewLatencyModel(*latency)
	}
	ex, err := exchange.New(log, cfg, matching.NewDefaultConfig(), b, pos, acc, fees, fill, lat)
	require.NoError(t, err)

	inst := audusd()
	require.NoError(t, ex.AddInstrument(inst))
	return &testExchange{
		Exchange:  ex,
		inst:      inst,
		collector: collector,
		ctx:       context.Background(),
	}
}

func immediateConfig() exchange.Config {
	cfg := exchange.NewDefaultConfig()
	cfg.UseMessageQueue = false
	return cfg
}

func (te *testExchange) quote(t *testing.T, bid, ask string) {
	t.Helper()
	te.ts += int64(time.Millisecond)
	require.NoError(t, te.ProcessQuoteTick(te.ctx, &types.QuoteTick{
		InstrumentID: te.inst.ID,
		BidPrice:     te.inst.MustPrice(bid),
		AskPrice:     te.inst.MustPrice(ask),
		BidSize:      1_000_000,
		AskSize:      1_000_000,
		TsEvent:      te.ts,
		TsInit:       te.ts,
	}))
}

func (te *testExchange) order(t *testing.T, p types.OrderParams) *types.Order {
	t.Helper()
	p.TraderID = traderID
	p.StrategyID = strategyID
	p.InstrumentID = te.inst.ID
	if p.TimeInForce == types.TimeInForceUnspecified {
		p.TimeInForce = types.TimeInForceGTC
	}
	p.TsInit = te.ts
	o, err := types.NewOrder(p)
	require.NoError(t, err)
	return o
}

func (te *testExchange) submit(t *testing.T, p types.OrderParams) *types.Order {
	t.Helper()
	o := te.order(t, p)
	require.NoError(t, te.Send(te.ctx, &types.SubmitOrder{
		TraderID:   traderID,
		StrategyID: strategyID,
		Order:      o,
		TsInit:     te.ts,
	}))
	return o
}

func (te *testExchange) cancel(t *testing.T, clientOrderID string) {
	t.Helper()
	require.NoError(t, te.Send(te.ctx, &types.CancelOrder{
		TraderID:      traderID,
		StrategyID:    strategyID,
		InstrumentID:  te.inst.ID,
		ClientOrderID: clientOrderID,
		TsInit:        te.ts,
	}))
}

// orderEvents lists the order event types published for the order.
func (te *testExchange) orderEvents(clientOrderID string) []types.OrderEventType {
	out := []types.OrderEventType{}
	for _, e := range te.collector.OrderEvents() {
		if e.ClientOrderID() == clientOrderID {
			out = append(out, e.OrderEventType())
		}
	}
	return out
}

func (te *testExchange) lastOrderEvent(clientOrderID string) *types.OrderEvent {
	var last *types.OrderEvent
	for _, e := range te.collector.OrderEvents() {
		if e.ClientOrderID() == clientOrderID {
			last = e.OrderEvent()
		}
	}
	return last
}

func balance(t *testing.T, st types.AccountState, ccy string) types.AccountBalance {
	t.Helper()
	for _, b := range st.Balances {
		if b.Currency == ccy {
			return b
		}
	}
	t.Fatalf("no %s balance", ccy)
	return types.AccountBalance{}
}

func TestNewExchange(t *testing.T) {
	log := logging.NewTestLogger()
	b := broker.New(log, broker.NewDefaultConfig())
	pos, err := positions.New(log, positions.NewDefaultConfig(), b)
	require.NoError(t, err)
	acc, err := accounts.New(log, accounts.NewDefaultConfig(), b, traderID, accountID)
	require.NoError(t, err)

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := exchange.New(log, exchange.NewDefaultConfig(), matching.NewDefaultConfig(), nil, pos, acc, nil, nil, nil)
		assert.ErrorIs(t, err, exchange.ErrMissingCollaborator)
	})

	t.Run("invalid book type", func(t *testing.T) {
		mcfg := matching.NewDefaultConfig()
		mcfg.BookType = "L3_MBO"
		_, err := exchange.New(log, exchange.NewDefaultConfig(), mcfg, b, pos, acc, nil, nil, nil)
		assert.ErrorIs(t, err, types.ErrInvalidBookType)
	})

	t.Run("latency simulation without a model", func(t *testing.T) {
		cfg := exchange.NewDefaultConfig()
		cfg.SimulateLatency = true
		_, err := exchange.New(log, cfg, matching.NewDefaultConfig(), b, pos, acc, nil, nil, nil)
		assert.ErrorIs(t, err, exchange.ErrNoLatencyModel)
	})

	t.Run("instruments are added once", func(t *testing.T) {
		ex, err := exchange.New(log, exchange.NewDefaultConfig(), matching.NewDefaultConfig(), b, pos, acc, nil, nil, nil)
		require.NoError(t, err)
		require.NoError(t, ex.AddInstrument(audusd()))
		assert.ErrorIs(t, ex.AddInstrument(audusd()), exchange.ErrDuplicateInstrument)
		assert.Equal(t, []string{"AUD/USD.SIM"}, ex.Instruments())
	})
}

func TestSend(t *testing.T) {
	t.Run("unknown instrument is an error", testSendUnknownInstrument)
	t.Run("market order fill updates position then account", testMarketOrderEventOrder)
	t.Run("round trip realizes the P&L", testRoundTripPnL)
	t.Run("queued commands wait for process", testQueuedCommands)
	t.Run("repeated cancel is dropped", testRepeatedCancel)
	t.Run("unknown orders are rejected", testUnknownOrdersRejected)
	t.Run("modify goes through pending update", testModifyPendingUpdate)
	t.Run("modify queued behind a cancel is answered", testModifyBehindCancel)
	t.Run("modify outside the quantity bounds is rejected", testModifyOutsideQuantityBounds)
	t.Run("resubmitted order is denied and left untouched", testResubmittedOrderDenied)
}

func testSendUnknownInstrument(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	err := te.Send(te.ctx, &types.CancelOrder{InstrumentID: "EUR/USD.SIM", ClientOrderID: "O-1"})
	assert.ErrorIs(t, err, exchange.ErrUnknownInstrument)
	assert.ErrorIs(t, te.Send(te.ctx, &types.SubmitOrder{}), exchange.ErrMissingOrder)

	err = te.ProcessQuoteTick(te.ctx, &types.QuoteTick{InstrumentID: "EUR/USD.SIM"})
	assert.ErrorIs(t, err, exchange.ErrUnknownInstrument)
}

func testMarketOrderEventOrder(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")

	o := te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeMarket,
		Quantity:      100_000,
	})

	got, err := te.Order(o.ClientOrderID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusFilled, got.Status)
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, []types.OrderEventType{types.OrderEventSubmitted, types.OrderEventFilled}, te.orderEvents("O-1"))

	// the fill is followed by the position then the account update
	evts := te.collector.Events()
	idx := -1
	for i, e := range evts {
		if oe, ok := e.(*events.Order); ok && oe.OrderEventType() == types.OrderEventFilled {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.Greater(t, len(evts), idx+2)
	pe, ok := evts[idx+1].(*events.Position)
	require.True(t, ok, "expected a position event after the fill")
	assert.Equal(t, types.PositionEventOpened, pe.PositionEventType())
	_, ok = evts[idx+2].(*events.Acc)
	assert.True(t, ok, "expected an account event after the position")

	fill := te.lastOrderEvent("O-1").Fill
	assert.Equal(t, "70010", fill.LastPx.String())
	assert.Equal(t, "1.4002", fill.Commission.Amount.String())
	assert.Equal(t, "USD", fill.Commission.Currency)

	ps := te.Positions(te.inst.ID)
	require.Len(t, ps, 1)
	assert.Equal(t, types.PositionSideLong, ps[0].Side)
	assert.Equal(t, uint64(100_000), ps[0].Quantity)

	usd := balance(t, te.Account(), "USD")
	assert.Equal(t, "999998.5998", usd.Total.String())
	assert.True(t, usd.Locked.IsPositive())
}

func testRoundTripPnL(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeMarket,
		Quantity:      100_000,
	})

	te.quote(t, "0.70110", "0.70120")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-2",
		Side:          types.SideSell,
		Type:          types.OrderTypeMarket,
		Quantity:      100_000,
	})

	ps := te.Positions(te.inst.ID)
	require.Len(t, ps, 1)
	assert.Equal(t, types.PositionSideFlat, ps[0].Side)
	// 100 USD gained less the commissions of both fills
	assert.Equal(t, "97.1976", ps[0].RealizedPnL.Amount.String())

	usd := balance(t, te.Account(), "USD")
	assert.Equal(t, "1000097.1976", usd.Total.String())
	assert.True(t, usd.Locked.IsZero())
}

func testQueuedCommands(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), nil)
	te.quote(t, "0.70000", "0.70010")

	o := te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	assert.Equal(t, 1, te.Pending())
	assert.Equal(t, []types.OrderEventType{types.OrderEventSubmitted}, te.orderEvents(o.ClientOrderID))

	te.Process(te.ctx, te.ts)
	assert.Equal(t, 0, te.Pending())
	assert.Equal(t, []types.OrderEventType{types.OrderEventSubmitted, types.OrderEventAccepted}, te.orderEvents(o.ClientOrderID))

	open, err := te.OpenOrders(te.inst.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "AUD/USD.SIM-1", open[0].VenueOrderID)

	// the resting bid locks its initial margin
	usd := balance(t, te.Account(), "USD")
	assert.Equal(t, "2099.7", usd.Locked.String())
}

func testRepeatedCancel(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	te.Process(te.ctx, te.ts)

	te.cancel(t, "O-1")
	te.cancel(t, "O-1")
	assert.Equal(t, 1, te.Pending())

	te.Process(te.ctx, te.ts)
	assert.Equal(t, []types.OrderEventType{
		types.OrderEventSubmitted,
		types.OrderEventAccepted,
		types.OrderEventPendingCancel,
		types.OrderEventCanceled,
	}, te.orderEvents("O-1"))
}

func testUnknownOrdersRejected(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.cancel(t, "O-404")
	evt := te.lastOrderEvent("O-404")
	require.NotNil(t, evt)
	assert.Equal(t, types.OrderEventCancelRejected, evt.Type)
	assert.Equal(t, "Order O-404 not found", evt.Reason)

	qty := uint64(10)
	require.NoError(t, te.Send(te.ctx, &types.ModifyOrder{
		InstrumentID:  te.inst.ID,
		ClientOrderID: "O-405",
		Quantity:      &qty,
	}))
	evt = te.lastOrderEvent("O-405")
	require.NotNil(t, evt)
	assert.Equal(t, types.OrderEventModifyRejected, evt.Type)

	_, err := te.Order("O-404")
	assert.ErrorIs(t, err, exchange.ErrOrderNotFound)
}

func testModifyPendingUpdate(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	te.Process(te.ctx, te.ts)

	require.NoError(t, te.Send(te.ctx, &types.ModifyOrder{
		InstrumentID:  te.inst.ID,
		ClientOrderID: "O-1",
		Price:         te.inst.MustPrice("0.69995"),
		TsInit:        te.ts,
	}))
	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPendingUpdate, o.Status)

	te.Process(te.ctx, te.ts)
	o, err = te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
	assert.Equal(t, "69995", o.Price.String())
}

func testModifyBehindCancel(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	te.Process(te.ctx, te.ts)

	qty := uint64(50_000)
	require.NoError(t, te.Send(te.ctx, &types.ModifyOrder{
		InstrumentID:  te.inst.ID,
		ClientOrderID: "O-1",
		Quantity:      &qty,
		TsInit:        te.ts,
	}))
	te.cancel(t, "O-1")
	te.Process(te.ctx, te.ts)

	assert.Equal(t, []types.OrderEventType{
		types.OrderEventSubmitted,
		types.OrderEventAccepted,
		types.OrderEventPendingUpdate,
		types.OrderEventPendingCancel,
		types.OrderEventModifyRejected,
		types.OrderEventCanceled,
	}, te.orderEvents("O-1"))

	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusCanceled, o.Status)
	assert.Equal(t, uint64(100_000), o.Quantity)
	for _, e := range o.Events {
		if e.Type == types.OrderEventModifyRejected {
			assert.Equal(t, "Order O-1 pending cancel", e.Reason)
		}
	}
}

func testModifyOutsideQuantityBounds(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})

	qty := te.inst.MaxQuantity + 1
	require.NoError(t, te.Send(te.ctx, &types.ModifyOrder{
		InstrumentID:  te.inst.ID,
		ClientOrderID: "O-1",
		Quantity:      &qty,
		TsInit:        te.ts,
	}))

	evt := te.lastOrderEvent("O-1")
	require.NotNil(t, evt)
	assert.Equal(t, types.OrderEventModifyRejected, evt.Type)
	assert.Contains(t, evt.Reason, "above the maximum")

	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
	assert.Equal(t, uint64(100_000), o.Quantity)
}

func testResubmittedOrderDenied(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	o := te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      1_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	require.NoError(t, te.Send(te.ctx, &types.SubmitOrder{
		TraderID:   traderID,
		StrategyID: strategyID,
		Order:      o,
		TsInit:     te.ts,
	}))

	assert.Equal(t, []types.OrderEventType{
		types.OrderEventSubmitted,
		types.OrderEventAccepted,
		types.OrderEventDenied,
	}, te.orderEvents("O-1"))
	assert.Equal(t, "Duplicate client order id O-1", te.lastOrderEvent("O-1").Reason)
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
	open, err := te.OpenOrders(te.inst.ID)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestLatency(t *testing.T) {
	t.Run("commands wait for their latency", testCommandsWaitForLatency)
	t.Run("cancel never overtakes its submit", testCancelNeverOvertakesSubmit)
}

func testCommandsWaitForLatency(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), &models.LatencyConfig{
		Base:   encoding.Duration{Duration: time.Millisecond},
		Insert: encoding.Duration{Duration: 2 * time.Millisecond},
	})
	te.quote(t, "0.70000", "0.70010")
	sent := te.ts
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})

	te.Process(te.ctx, sent+int64(2*time.Millisecond))
	assert.Equal(t, 1, te.Pending())
	assert.Equal(t, []types.OrderEventType{types.OrderEventSubmitted}, te.orderEvents("O-1"))

	due := sent + int64(3*time.Millisecond)
	te.Process(te.ctx, due)
	assert.Equal(t, 0, te.Pending())
	evt := te.lastOrderEvent("O-1")
	assert.Equal(t, types.OrderEventAccepted, evt.Type)
	assert.Equal(t, due, evt.TsEvent)
}

func testCancelNeverOvertakesSubmit(t *testing.T) {
	te := getTestExchange(t, exchange.NewDefaultConfig(), &models.LatencyConfig{
		Insert: encoding.Duration{Duration: 5 * time.Millisecond},
	})
	te.quote(t, "0.70000", "0.70010")
	sent := te.ts
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      100_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	te.ts += int64(time.Millisecond)
	te.cancel(t, "O-1")

	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPendingCancel, o.Status)

	// the cancel has no latency of its own but waits for the submit
	te.Process(te.ctx, te.ts)
	assert.Equal(t, 2, te.Pending())

	te.Process(te.ctx, sent+int64(5*time.Millisecond))
	assert.Equal(t, 0, te.Pending())
	assert.Equal(t, []types.OrderEventType{
		types.OrderEventSubmitted,
		types.OrderEventPendingCancel,
		types.OrderEventAccepted,
		types.OrderEventCanceled,
	}, te.orderEvents("O-1"))
}

func TestPreTradeRisk(t *testing.T) {
	cases := []struct {
		name   string
		params types.OrderParams
		reason string
	}{
		{
			name: "quantity above maximum",
			params: types.OrderParams{
				Side: types.SideBuy, Type: types.OrderTypeMarket, Quantity: 20_000_000,
			},
			reason: "Quantity 20000000 above the maximum of 10000000 for AUD/USD.SIM",
		},
		{
			name: "quote quantity not allowed",
			params: types.OrderParams{
				Side: types.SideBuy, Type: types.OrderTypeMarket, Quantity: 1_000, QuoteQuantity: true,
			},
			reason: "Quote quantity orders are not supported on AUD/USD.SIM",
		},
		{
			name: "GTD already expired",
			params: types.OrderParams{
				Side: types.SideBuy, Type: types.OrderTypeLimit, Quantity: 1_000,
				Price: num.NewUint(69990), TimeInForce: types.TimeInForceGTD, ExpireTime: 1,
			},
			reason: "GTD expire time 1 is not after 1000000",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			te := getTestExchange(t, immediateConfig(), nil)
			te.quote(t, "0.70000", "0.70010")
			tc.params.ClientOrderID = "O-1"
			te.submit(t, tc.params)

			evt := te.lastOrderEvent("O-1")
			require.NotNil(t, evt)
			assert.Equal(t, types.OrderEventDenied, evt.Type)
			assert.Equal(t, tc.reason, evt.Reason)

			o, err := te.Order("O-1")
			require.NoError(t, err)
			assert.Equal(t, types.OrderStatusDenied, o.Status)
			open, err := te.OpenOrders(te.inst.ID)
			require.NoError(t, err)
			assert.Empty(t, open)
		})
	}

	t.Run("insufficient margin", func(t *testing.T) {
		te := getTestExchange(t, immediateConfig(), nil)
		te.quote(t, "0.70000", "0.70010")
		require.NoError(t, te.AdjustAccount(te.ctx, types.NewMoney(num.MustDecimalFromString("-999000"), "USD")))
		te.submit(t, types.OrderParams{
			ClientOrderID: "O-1",
			Side:          types.SideBuy,
			Type:          types.OrderTypeMarket,
			Quantity:      100_000,
		})
		evt := te.lastOrderEvent("O-1")
		require.NotNil(t, evt)
		assert.Equal(t, types.OrderEventDenied, evt.Type)
		assert.Contains(t, evt.Reason, accounts.ErrInsufficientBalance.Error())
	})

	t.Run("duplicate client order id", func(t *testing.T) {
		te := getTestExchange(t, immediateConfig(), nil)
		te.quote(t, "0.70000", "0.70010")
		p := types.OrderParams{
			ClientOrderID: "O-1",
			Side:          types.SideBuy,
			Type:          types.OrderTypeLimit,
			Quantity:      1_000,
			Price:         te.inst.MustPrice("0.69990"),
		}
		te.submit(t, p)
		dup := te.submit(t, p)

		assert.Equal(t, types.OrderStatusDenied, dup.Status)
		o, err := te.Order("O-1")
		require.NoError(t, err)
		assert.Equal(t, types.OrderStatusAccepted, o.Status)
		assert.Len(t, te.Orders(te.inst.ID), 1)
	})
}

func TestGTDExpiryOnProcess(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	expire := te.ts + int64(10*time.Millisecond)
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      1_000,
		Price:         te.inst.MustPrice("0.69990"),
		TimeInForce:   types.TimeInForceGTD,
		ExpireTime:    expire,
	})

	te.Process(te.ctx, expire-1)
	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusAccepted, o.Status)

	te.Process(te.ctx, expire)
	o, err = te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusExpired, o.Status)
	assert.Equal(t, expire, o.TsClosed)
}

func TestMarketStatus(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")

	status, err := te.ProcessStatus(te.ctx, te.inst.ID, types.MarketStatusActionPause, te.ts)
	require.NoError(t, err)
	assert.Equal(t, types.MarketStatusPaused, status)

	var published []*events.MarketStatus
	for _, e := range te.collector.Events() {
		if ms, ok := e.(*events.MarketStatus); ok {
			published = append(published, ms)
		}
	}
	require.Len(t, published, 1)
	assert.Equal(t, types.MarketStatusPaused, published[0].Status())

	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeMarket,
		Quantity:      1_000,
	})
	evt := te.lastOrderEvent("O-1")
	assert.Equal(t, types.OrderEventRejected, evt.Type)
	assert.Equal(t, "Market AUD/USD.SIM is PAUSED", evt.Reason)

	_, err = te.ProcessStatus(te.ctx, "EUR/USD.SIM", types.MarketStatusActionTrading, te.ts)
	assert.ErrorIs(t, err, exchange.ErrUnknownInstrument)
}

func TestAccountAdjustmentAndReset(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeMarket,
		Quantity:      100_000,
	})

	require.NoError(t, te.AdjustAccount(te.ctx, types.NewMoney(num.MustDecimalFromString("1000"), "USD")))
	assert.Equal(t, "1000998.5998", balance(t, te.Account(), "USD").Total.String())

	te.Reset(te.ctx)
	assert.Empty(t, te.Orders(""))
	assert.Empty(t, te.Positions(""))
	assert.Equal(t, "1000000", balance(t, te.Account(), "USD").Total.String())

	// ids start again after a reset
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      1_000,
		Price:         te.inst.MustPrice("0.69990"),
	})
	o, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, "AUD/USD.SIM-1", o.VenueOrderID)
}

func TestReadersGetCopies(t *testing.T) {
	te := getTestExchange(t, immediateConfig(), nil)
	te.quote(t, "0.70000", "0.70010")
	te.submit(t, types.OrderParams{
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeLimit,
		Quantity:      1_000,
		Price:         te.inst.MustPrice("0.69990"),
	})

	o, err := te.Order("O-1")
	require.NoError(t, err)
	o.Status = types.OrderStatusCanceled
	o.Price.AddSum(num.NewUint(1))

	again, err := te.Order("O-1")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusAccepted, again.Status)
	assert.Equal(t, "69990", again.Price.String())

	bid, ask, err := te.BestBidAsk(te.inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "70000", bid.String())
	assert.Equal(t, "70010", ask.String())
}
