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

	"github.com/pkg/errors"
)

// OrderParams are the fields chosen by the submitting party.
type OrderParams struct {
	TraderID      string
	StrategyID    string
	InstrumentID  string
	ClientOrderID string
	PositionID    string
	Side          Side
	Type          OrderType
	Quantity      uint64
	Price         *num.Uint
	TriggerPrice  *num.Uint
	TimeInForce   TimeInForce
	ExpireTime    int64
	PostOnly      bool
	ReduceOnly    bool
	QuoteQuantity bool
	TsInit        int64
}

// Order is a single order of any type, the type specific behaviour lives in
// switches over Type. It is mutated only through Apply.
type Order struct {
	TraderID      string
	StrategyID    string
	InstrumentID  string
	ClientOrderID string
	VenueOrderID  string
	PositionID    string
	AccountID     string
	LastTradeID   string

	Side          Side
	Type          OrderType
	Quantity      uint64
	Price         *num.Uint
	TriggerPrice  *num.Uint
	TimeInForce   TimeInForce
	ExpireTime    int64
	PostOnly      bool
	ReduceOnly    bool
	QuoteQuantity bool

	Status         OrderStatus
	PreviousStatus OrderStatus
	FilledQty      uint64
	// AvgPx is the quantity weighted average fill price in ticks.
	AvgPx         num.Decimal
	LiquiditySide LiquiditySide
	IsTriggered   bool

	Events []*OrderEvent

	TsInit      int64
	TsLast      int64
	TsSubmitted int64
	TsAccepted  int64
	TsTriggered int64
	TsClosed    int64
}

// NewOrder validates the parameters and returns an INITIALIZED order.
func NewOrder(p OrderParams) (*Order, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	o := &Order{
		TraderID:      p.TraderID,
		StrategyID:    p.StrategyID,
		InstrumentID:  p.InstrumentID,
		ClientOrderID: p.ClientOrderID,
		PositionID:    p.PositionID,
		Side:          p.Side,
		Type:          p.Type,
		Quantity:      p.Quantity,
		Price:         num.CloneOrNil(p.Price),
		TriggerPrice:  num.CloneOrNil(p.TriggerPrice),
		TimeInForce:   p.TimeInForce,
		ExpireTime:    p.ExpireTime,
		PostOnly:      p.PostOnly,
		ReduceOnly:    p.ReduceOnly,
		QuoteQuantity: p.QuoteQuantity,
		Status:        OrderStatusInitialized,
		AvgPx:         num.DecimalZero(),
		TsInit:        p.TsInit,
		TsLast:        p.TsInit,
	}
	o.Events = append(o.Events, &OrderEvent{
		Type:          OrderEventInitialized,
		TraderID:      o.TraderID,
		StrategyID:    o.StrategyID,
		InstrumentID:  o.InstrumentID,
		ClientOrderID: o.ClientOrderID,
		TsEvent:       p.TsInit,
		TsInit:        p.TsInit,
	})
	return o, nil
}

func (p OrderParams) validate() error {
	if len(p.ClientOrderID) == 0 {
		return ErrMissingClientOrderID
	}
	if len(p.InstrumentID) == 0 {
		return ErrMissingInstrumentID
	}
	if p.Side != SideBuy && p.Side != SideSell {
		return ErrInvalidSide
	}
	if p.Quantity == 0 {
		return ErrZeroQuantity
	}
	if p.TimeInForce == TimeInForceUnspecified {
		return ErrInvalidTimeInForce
	}
	if p.TimeInForce == TimeInForceGTD && p.ExpireTime <= 0 {
		return ErrMissingExpireTime
	}
	if p.TimeInForce != TimeInForceGTD && p.ExpireTime != 0 {
		return ErrUnexpectedExpireTime
	}

	switch p.Type {
	case OrderTypeMarket, OrderTypeMarketToLimit:
		if p.Price != nil {
			return ErrUnexpectedPrice
		}
		if p.TriggerPrice != nil {
			return ErrUnexpectedTriggerPrice
		}
		if p.PostOnly {
			return ErrPostOnlyNotSupported
		}
	case OrderTypeLimit:
		if p.Price == nil {
			return ErrMissingPrice
		}
		if p.TriggerPrice != nil {
			return ErrUnexpectedTriggerPrice
		}
	case OrderTypeStopMarket, OrderTypeMarketIfTouched:
		if p.TriggerPrice == nil {
			return ErrMissingTriggerPrice
		}
		if p.Price != nil {
			return ErrUnexpectedPrice
		}
		if p.PostOnly {
			return ErrPostOnlyNotSupported
		}
	case OrderTypeStopLimit, OrderTypeLimitIfTouched:
		if p.Price == nil {
			return ErrMissingPrice
		}
		if p.TriggerPrice == nil {
			return ErrMissingTriggerPrice
		}
	default:
		return ErrInvalidOrderType
	}
	return nil
}

func (o *Order) IsBuy() bool  { return o.Side == SideBuy }
func (o *Order) IsSell() bool { return o.Side == SideSell }

// IsPassive is true for anything which is not a plain market order.
func (o *Order) IsPassive() bool {
	return o.Type != OrderTypeMarket
}

func (o *Order) LeavesQty() uint64 {
	return o.Quantity - o.FilledQty
}

func (o *Order) HasPrice() bool {
	return o.Price != nil
}

func (o *Order) IsOpen() bool {
	switch o.Status {
	case OrderStatusAccepted, OrderStatusTriggered, OrderStatusPendingCancel,
		OrderStatusPendingUpdate, OrderStatusPartiallyFilled:
		return true
	}
	return false
}

func (o *Order) IsInflight() bool {
	switch o.Status {
	case OrderStatusSubmitted, OrderStatusPendingCancel, OrderStatusPendingUpdate:
		return true
	}
	return false
}

func (o *Order) IsClosed() bool {
	return o.Status.IsTerminal()
}

// WouldReduceOnly returns true when filling the whole leaves quantity
// would only reduce a position with the given side and quantity.
func (o *Order) WouldReduceOnly(side PositionSide, qty uint64) bool {
	switch side {
	case PositionSideLong:
		return o.IsSell() && o.LeavesQty() <= qty
	case PositionSideShort:
		return o.IsBuy() && o.LeavesQty() <= qty
	}
	return false
}

// Apply validates the transition and mutates the order, the event is
// appended to the history.
func (o *Order) Apply(e *OrderEvent) error {
	if e.ClientOrderID != o.ClientOrderID {
		return errors.Wrapf(ErrOrderEventMismatch, "%s applied to %s", e.ClientOrderID, o.ClientOrderID)
	}

	next, err := o.transition(e)
	if err != nil {
		return err
	}

	switch e.Type {
	case OrderEventInitialized:
		return ErrOrderAlreadyInitialized
	case OrderEventDenied, OrderEventRejected:
		o.TsClosed = e.TsEvent
	case OrderEventSubmitted:
		o.AccountID = e.AccountID
		o.TsSubmitted = e.TsEvent
	case OrderEventAccepted:
		o.VenueOrderID = e.VenueOrderID
		o.TsAccepted = e.TsEvent
	case OrderEventPendingUpdate, OrderEventPendingCancel, OrderEventModifyRejected, OrderEventCancelRejected:
	case OrderEventUpdated:
		if err := o.updated(e); err != nil {
			return err
		}
	case OrderEventTriggered:
		o.IsTriggered = true
		o.TsTriggered = e.TsEvent
	case OrderEventCanceled, OrderEventExpired:
		o.TsClosed = e.TsEvent
	case OrderEventFilled:
		if err := o.filled(e); err != nil {
			return err
		}
		next = OrderStatusPartiallyFilled
		if o.FilledQty == o.Quantity {
			next = OrderStatusFilled
			o.TsClosed = e.TsEvent
		}
	}

	if next != o.Status {
		o.PreviousStatus = o.Status
		o.Status = next
	}
	if len(e.VenueOrderID) > 0 && len(o.VenueOrderID) == 0 {
		o.VenueOrderID = e.VenueOrderID
	}
	o.TsLast = e.TsEvent
	o.Events = append(o.Events, e)
	return nil
}

func (o *Order) transition(e *OrderEvent) (OrderStatus, error) {
	invalid := func() (OrderStatus, error) {
		return o.Status, errors.Wrapf(ErrInvalidStateTransition, "%s on %s order %s", e.Type, o.Status, o.ClientOrderID)
	}
	if o.Status.IsTerminal() {
		return invalid()
	}

	switch e.Type {
	case OrderEventModifyRejected:
		if o.Status == OrderStatusPendingUpdate {
			return o.restore()
		}
		return o.Status, nil
	case OrderEventCancelRejected:
		if o.Status == OrderStatusPendingCancel {
			return o.restore()
		}
		return o.Status, nil
	case OrderEventUpdated:
		switch o.Status {
		case OrderStatusSubmitted, OrderStatusAccepted, OrderStatusTriggered, OrderStatusPartiallyFilled:
			return o.Status, nil
		case OrderStatusPendingUpdate:
			return o.restore()
		}
		return invalid()
	case OrderEventFilled:
		switch o.Status {
		case OrderStatusSubmitted, OrderStatusAccepted, OrderStatusTriggered, OrderStatusPendingUpdate,
			OrderStatusPendingCancel, OrderStatusPartiallyFilled:
			// resolved to PARTIALLY_FILLED or FILLED once the quantity is known
			return OrderStatusFilled, nil
		}
		return invalid()
	}

	next, ok := transitions[o.Status][e.Type]
	if !ok {
		return invalid()
	}
	return next, nil
}

func (o *Order) restore() (OrderStatus, error) {
	if o.PreviousStatus == OrderStatusUnspecified {
		return o.Status, ErrNoPreviousStatus
	}
	return o.PreviousStatus, nil
}

var transitions = map[OrderStatus]map[OrderEventType]OrderStatus{
	OrderStatusInitialized: {
		OrderEventDenied:    OrderStatusDenied,
		OrderEventSubmitted: OrderStatusSubmitted,
		OrderEventRejected:  OrderStatusRejected,
		OrderEventAccepted:  OrderStatusAccepted,
		OrderEventCanceled:  OrderStatusCanceled,
		OrderEventExpired:   OrderStatusExpired,
		OrderEventTriggered: OrderStatusTriggered,
	},
	OrderStatusSubmitted: {
		OrderEventPendingUpdate: OrderStatusPendingUpdate,
		OrderEventPendingCancel: OrderStatusPendingCancel,
		OrderEventRejected:      OrderStatusRejected,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventAccepted:      OrderStatusAccepted,
	},
	OrderStatusAccepted: {
		OrderEventRejected:      OrderStatusRejected,
		OrderEventPendingUpdate: OrderStatusPendingUpdate,
		OrderEventPendingCancel: OrderStatusPendingCancel,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventTriggered:     OrderStatusTriggered,
		OrderEventExpired:       OrderStatusExpired,
	},
	OrderStatusPendingUpdate: {
		OrderEventRejected:      OrderStatusRejected,
		OrderEventAccepted:      OrderStatusAccepted,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventExpired:       OrderStatusExpired,
		OrderEventTriggered:     OrderStatusTriggered,
		OrderEventPendingUpdate: OrderStatusPendingUpdate,
		OrderEventPendingCancel: OrderStatusPendingCancel,
	},
	OrderStatusPendingCancel: {
		OrderEventRejected:      OrderStatusRejected,
		OrderEventPendingCancel: OrderStatusPendingCancel,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventExpired:       OrderStatusExpired,
		OrderEventAccepted:      OrderStatusAccepted,
		OrderEventTriggered:     OrderStatusTriggered,
	},
	OrderStatusTriggered: {
		OrderEventRejected:      OrderStatusRejected,
		OrderEventPendingUpdate: OrderStatusPendingUpdate,
		OrderEventPendingCancel: OrderStatusPendingCancel,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventExpired:       OrderStatusExpired,
	},
	OrderStatusPartiallyFilled: {
		OrderEventPendingUpdate: OrderStatusPendingUpdate,
		OrderEventPendingCancel: OrderStatusPendingCancel,
		OrderEventCanceled:      OrderStatusCanceled,
		OrderEventExpired:       OrderStatusExpired,
		OrderEventAccepted:      OrderStatusAccepted,
	},
}

func (o *Order) updated(e *OrderEvent) error {
	if e.Quantity > 0 {
		if e.Quantity < o.FilledQty {
			return errors.Wrapf(ErrUpdateBelowFilled, "order %s quantity %d filled %d", o.ClientOrderID, e.Quantity, o.FilledQty)
		}
		o.Quantity = e.Quantity
	}
	if e.Price != nil {
		o.Price = e.Price.Clone()
	}
	if e.TriggerPrice != nil {
		o.TriggerPrice = e.TriggerPrice.Clone()
	}
	return nil
}

func (o *Order) filled(e *OrderEvent) error {
	f := e.Fill
	if f == nil || f.LastQty == 0 || f.LastPx == nil {
		return errors.Wrapf(ErrInvalidStateTransition, "empty fill for order %s", o.ClientOrderID)
	}
	if o.FilledQty+f.LastQty > o.Quantity {
		return errors.Wrapf(ErrOverfill, "order %s quantity %d filled %d last %d", o.ClientOrderID, o.Quantity, o.FilledQty, f.LastQty)
	}

	prev := num.DecimalFromUint64(o.FilledQty)
	last := num.DecimalFromUint64(f.LastQty)
	total := prev.Add(last)
	o.AvgPx = o.AvgPx.Mul(prev).Add(f.LastPx.ToDecimal().Mul(last)).Div(total)

	o.FilledQty += f.LastQty
	o.LiquiditySide = f.LiquiditySide
	o.LastTradeID = f.TradeID
	if len(f.PositionID) > 0 {
		o.PositionID = f.PositionID
	}
	return nil
}

// LastEvent returns the most recent event, INITIALIZED at least.
func (o *Order) LastEvent() *OrderEvent {
	return o.Events[len(o.Events)-1]
}

// Clone returns a deep copy, readers outside of the venue only ever get
// clones.
func (o *Order) Clone() *Order {
	cpy := *o
	cpy.Price = num.CloneOrNil(o.Price)
	cpy.TriggerPrice = num.CloneOrNil(o.TriggerPrice)
	cpy.Events = make([]*OrderEvent, 0, len(o.Events))
	for _, e := range o.Events {
		cpy.Events = append(cpy.Events, e.Clone())
	}
	return &cpy
}

func (o *Order) String() string {
	return fmt.Sprintf("%s(%s %s %d @ %v trigger %v %s, status=%s, client_order_id=%s, venue_order_id=%s, filled=%d)",
		o.Type, o.Side, o.InstrumentID, o.Quantity, o.Price, o.TriggerPrice, o.TimeInForce,
		o.Status, o.ClientOrderID, o.VenueOrderID, o.FilledQty)
}
