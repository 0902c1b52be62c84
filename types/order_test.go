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

package types_test

import (
	"testing"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimit(t *testing.T, side types.Side, qty uint64, px uint64) *types.Order {
	t.Helper()
	o, err := types.NewOrder(types.OrderParams{
		TraderID:      "TRADER-001",
		StrategyID:    "S-001",
		InstrumentID:  "AUD/USD.SIM",
		ClientOrderID: "O-1",
		Side:          side,
		Type:          types.OrderTypeLimit,
		Quantity:      qty,
		Price:         num.NewUint(px),
		TimeInForce:   types.TimeInForceGTC,
	})
	require.NoError(t, err)
	return o
}

func event(o *types.Order, et types.OrderEventType) *types.OrderEvent {
	return &types.OrderEvent{
		Type:          et,
		ClientOrderID: o.ClientOrderID,
		InstrumentID:  o.InstrumentID,
		VenueOrderID:  "V-1",
	}
}

func fill(o *types.Order, qty, px uint64, tradeID string) *types.OrderEvent {
	e := event(o, types.OrderEventFilled)
	e.Fill = &types.Fill{
		TradeID:       tradeID,
		Side:          o.Side,
		OrderType:     o.Type,
		LastQty:       qty,
		LastPx:        num.NewUint(px),
		LiquiditySide: types.LiquiditySideMaker,
	}
	return e
}

func TestNewOrderValidation(t *testing.T) {
	cases := []struct {
		name string
		p    types.OrderParams
		err  error
	}{
		{"missing id", types.OrderParams{InstrumentID: "X", Side: types.SideBuy, Type: types.OrderTypeMarket, Quantity: 1, TimeInForce: types.TimeInForceGTC}, types.ErrMissingClientOrderID},
		{"zero quantity", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideBuy, Type: types.OrderTypeMarket, TimeInForce: types.TimeInForceGTC}, types.ErrZeroQuantity},
		{"limit without price", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideBuy, Type: types.OrderTypeLimit, Quantity: 1, TimeInForce: types.TimeInForceGTC}, types.ErrMissingPrice},
		{"stop without trigger", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideSell, Type: types.OrderTypeStopMarket, Quantity: 1, TimeInForce: types.TimeInForceGTC}, types.ErrMissingTriggerPrice},
		{"market with price", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideSell, Type: types.OrderTypeMarket, Quantity: 1, Price: num.NewUint(1), TimeInForce: types.TimeInForceGTC}, types.ErrUnexpectedPrice},
		{"gtd without expiry", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideSell, Type: types.OrderTypeLimit, Quantity: 1, Price: num.NewUint(1), TimeInForce: types.TimeInForceGTD}, types.ErrMissingExpireTime},
		{"post only market", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Side: types.SideSell, Type: types.OrderTypeMarket, Quantity: 1, PostOnly: true, TimeInForce: types.TimeInForceGTC}, types.ErrPostOnlyNotSupported},
		{"no side", types.OrderParams{ClientOrderID: "O", InstrumentID: "X", Type: types.OrderTypeMarket, Quantity: 1, TimeInForce: types.TimeInForceGTC}, types.ErrInvalidSide},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := types.NewOrder(c.p)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("initialized order has one event", testInitializedOrder)
	t.Run("submit accept fill", testSubmitAcceptFill)
	t.Run("terminal order rejects further events", testTerminalIsFinal)
	t.Run("modify rejected restores previous status", testModifyRejectedRestores)
	t.Run("cancel rejected restores previous status", testCancelRejectedRestores)
	t.Run("update from pending update restores previous status", testUpdateRestores)
	t.Run("overfill is refused", testOverfillRefused)
	t.Run("denied straight from initialized", testDenied)
	t.Run("invalid transition", testInvalidTransition)
}

func testInitializedOrder(t *testing.T) {
	o := newLimit(t, types.SideBuy, 100, 90001)
	assert.Equal(t, types.OrderStatusInitialized, o.Status)
	require.Len(t, o.Events, 1)
	assert.Equal(t, types.OrderEventInitialized, o.LastEvent().Type)
	assert.False(t, o.IsOpen())
	assert.False(t, o.IsClosed())
}

func testSubmitAcceptFill(t *testing.T) {
	o := newLimit(t, types.SideBuy, 100, 90001)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	assert.True(t, o.IsInflight())
	require.NoError(t, o.Apply(event(o, types.OrderEventAccepted)))
	assert.Equal(t, "V-1", o.VenueOrderID)
	assert.True(t, o.IsOpen())

	require.NoError(t, o.Apply(fill(o, 40, 90000, "T-1")))
	assert.Equal(t, types.OrderStatusPartiallyFilled, o.Status)
	assert.Equal(t, uint64(60), o.LeavesQty())

	require.NoError(t, o.Apply(fill(o, 60, 90001, "T-2")))
	assert.Equal(t, types.OrderStatusFilled, o.Status)
	assert.Equal(t, o.Quantity, o.FilledQty)
	// (40*90000 + 60*90001) / 100
	assert.True(t, num.MustDecimalFromString("90000.6").Equal(o.AvgPx), o.AvgPx.String())
	assert.Equal(t, "T-2", o.LastTradeID)
	assert.True(t, o.IsClosed())
}

func testTerminalIsFinal(t *testing.T) {
	o := newLimit(t, types.SideSell, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventRejected)))
	for _, et := range []types.OrderEventType{types.OrderEventAccepted, types.OrderEventCanceled, types.OrderEventUpdated, types.OrderEventModifyRejected} {
		err := o.Apply(event(o, et))
		assert.True(t, errors.Is(err, types.ErrInvalidStateTransition), et.String())
	}
	assert.Equal(t, types.OrderStatusRejected, o.Status)
	assert.Len(t, o.Events, 3)
}

func testModifyRejectedRestores(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventAccepted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventPendingUpdate)))
	require.NoError(t, o.Apply(event(o, types.OrderEventModifyRejected)))
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
}

func testCancelRejectedRestores(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventAccepted)))
	require.NoError(t, o.Apply(fill(o, 3, 5, "T-1")))
	require.NoError(t, o.Apply(event(o, types.OrderEventPendingCancel)))
	require.NoError(t, o.Apply(event(o, types.OrderEventCancelRejected)))
	assert.Equal(t, types.OrderStatusPartiallyFilled, o.Status)
}

func testUpdateRestores(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventAccepted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventPendingUpdate)))
	upd := event(o, types.OrderEventUpdated)
	upd.Quantity = 20
	upd.Price = num.NewUint(6)
	require.NoError(t, o.Apply(upd))
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
	assert.Equal(t, uint64(20), o.Quantity)
	assert.Equal(t, uint64(6), o.Price.Uint64())
}

func testOverfillRefused(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventSubmitted)))
	require.NoError(t, o.Apply(event(o, types.OrderEventAccepted)))
	err := o.Apply(fill(o, 11, 5, "T-1"))
	assert.ErrorIs(t, err, types.ErrOverfill)
	assert.Equal(t, uint64(0), o.FilledQty)
	assert.Equal(t, types.OrderStatusAccepted, o.Status)
}

func testDenied(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	require.NoError(t, o.Apply(event(o, types.OrderEventDenied)))
	assert.Equal(t, types.OrderStatusDenied, o.Status)
	assert.True(t, o.IsClosed())
}

func testInvalidTransition(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	err := o.Apply(event(o, types.OrderEventPendingCancel))
	assert.ErrorIs(t, err, types.ErrInvalidStateTransition)
	assert.Equal(t, types.OrderStatusInitialized, o.Status)
}

func TestWouldReduceOnly(t *testing.T) {
	o := newLimit(t, types.SideSell, 80000, 5)
	assert.False(t, o.WouldReduceOnly(types.PositionSideLong, 79000))
	assert.True(t, o.WouldReduceOnly(types.PositionSideLong, 80000))
	assert.False(t, o.WouldReduceOnly(types.PositionSideShort, 100000))
	assert.False(t, o.WouldReduceOnly(types.PositionSideFlat, 0))
}

func TestOrderClone(t *testing.T) {
	o := newLimit(t, types.SideBuy, 10, 5)
	cpy := o.Clone()
	cpy.Price.SetUint64(7)
	cpy.Events[0].ClientOrderID = "changed"
	assert.Equal(t, uint64(5), o.Price.Uint64())
	assert.Equal(t, "O-1", o.Events[0].ClientOrderID)
}
