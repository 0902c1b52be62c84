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

package types

import (
	"fmt"

	"code.vegaprotocol.io/simex/libs/num"
)

// OrderEventType is the closed set of events an order can receive.
type OrderEventType int32

const (
	OrderEventInitialized OrderEventType = iota
	OrderEventDenied
	OrderEventSubmitted
	OrderEventAccepted
	OrderEventRejected
	OrderEventCanceled
	OrderEventExpired
	OrderEventTriggered
	OrderEventPendingUpdate
	OrderEventPendingCancel
	OrderEventModifyRejected
	OrderEventCancelRejected
	OrderEventUpdated
	OrderEventFilled
)

var orderEventTypeStrings = map[OrderEventType]string{
	OrderEventInitialized:    "OrderInitialized",
	OrderEventDenied:         "OrderDenied",
	OrderEventSubmitted:      "OrderSubmitted",
	OrderEventAccepted:       "OrderAccepted",
	OrderEventRejected:       "OrderRejected",
	OrderEventCanceled:       "OrderCanceled",
	OrderEventExpired:        "OrderExpired",
	OrderEventTriggered:      "OrderTriggered",
	OrderEventPendingUpdate:  "OrderPendingUpdate",
	OrderEventPendingCancel:  "OrderPendingCancel",
	OrderEventModifyRejected: "OrderModifyRejected",
	OrderEventCancelRejected: "OrderCancelRejected",
	OrderEventUpdated:        "OrderUpdated",
	OrderEventFilled:         "OrderFilled",
}

func (t OrderEventType) String() string {
	if s, ok := orderEventTypeStrings[t]; ok {
		return s
	}
	return "OrderEventUnknown"
}

// Fill carries the payload of an OrderFilled event.
type Fill struct {
	TradeID       string
	PositionID    string
	Side          Side
	OrderType     OrderType
	LastQty       uint64
	LastPx        *num.Uint
	Currency      string
	Commission    Money
	LiquiditySide LiquiditySide
}

func (f *Fill) Clone() *Fill {
	if f == nil {
		return nil
	}
	cpy := *f
	cpy.LastPx = num.CloneOrNil(f.LastPx)
	return &cpy
}

// OrderEvent is a single lifecycle event, the payload fields in use depend
// on Type.
type OrderEvent struct {
	Type          OrderEventType
	EventID       string
	TraderID      string
	StrategyID    string
	AccountID     string
	InstrumentID  string
	ClientOrderID string
	VenueOrderID  string

	// Denied, Rejected, ModifyRejected and CancelRejected.
	Reason        string
	DueToPostOnly bool

	// Updated, zero Quantity and nil prices mean unchanged.
	Quantity     uint64
	Price        *num.Uint
	TriggerPrice *num.Uint

	// Filled.
	Fill *Fill

	TsEvent int64
	TsInit  int64
}

func (e *OrderEvent) Clone() *OrderEvent {
	cpy := *e
	cpy.Price = num.CloneOrNil(e.Price)
	cpy.TriggerPrice = num.CloneOrNil(e.TriggerPrice)
	cpy.Fill = e.Fill.Clone()
	return &cpy
}

func (e *OrderEvent) String() string {
	switch e.Type {
	case OrderEventDenied, OrderEventRejected, OrderEventModifyRejected, OrderEventCancelRejected:
		return fmt.Sprintf("%s(instrument_id=%s, client_order_id=%s, reason='%s', ts_event=%d)",
			e.Type, e.InstrumentID, e.ClientOrderID, e.Reason, e.TsEvent)
	case OrderEventUpdated:
		return fmt.Sprintf("%s(instrument_id=%s, client_order_id=%s, quantity=%d, price=%v, trigger_price=%v, ts_event=%d)",
			e.Type, e.InstrumentID, e.ClientOrderID, e.Quantity, e.Price, e.TriggerPrice, e.TsEvent)
	case OrderEventFilled:
		return fmt.Sprintf("%s(instrument_id=%s, client_order_id=%s, trade_id=%s, side=%s, last_qty=%d, last_px=%s, commission=%s, liquidity_side=%s, ts_event=%d)",
			e.Type, e.InstrumentID, e.ClientOrderID, e.Fill.TradeID, e.Fill.Side, e.Fill.LastQty, e.Fill.LastPx, e.Fill.Commission, e.Fill.LiquiditySide, e.TsEvent)
	default:
		return fmt.Sprintf("%s(instrument_id=%s, client_order_id=%s, venue_order_id=%s, ts_event=%d)",
			e.Type, e.InstrumentID, e.ClientOrderID, e.VenueOrderID, e.TsEvent)
	}
}
