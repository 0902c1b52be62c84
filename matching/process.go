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

package matching

import (
	"fmt"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/types"
)

// ProcessOrder runs a submitted order through the venue checks then
// accepts, fills or rejects it.
func (e *Engine) ProcessOrder(o *types.Order) {
	if e.core.OrderExists(o.ClientOrderID) {
		e.reject(o, "Order already exists", false)
		return
	}
	if e.status != types.MarketStatusOpen {
		e.reject(o, fmt.Sprintf("Market %s is %s", e.inst.ID, e.status), false)
		return
	}

	if !e.inst.IsValidQuantity(o.Quantity) {
		e.reject(o, fmt.Sprintf("Invalid order quantity %d for instrument %s", o.Quantity, e.inst.ID), false)
		return
	}
	if o.Price != nil && !e.inst.IsValidPrice(o.Price) {
		e.reject(o, fmt.Sprintf("Invalid order price %s for instrument %s", o.Price, e.inst.ID), false)
		return
	}
	if o.TriggerPrice != nil && !e.inst.IsValidPrice(o.TriggerPrice) {
		e.reject(o, fmt.Sprintf("Invalid order trigger price %s for instrument %s", o.TriggerPrice, e.inst.ID), false)
		return
	}

	if e.UseReduceOnly.Get() && o.ReduceOnly {
		side, _ := e.positions.PositionSize(o)
		if side == types.PositionSideFlat || side == types.PositionSideUnspecified ||
			(side == types.PositionSideLong && o.IsBuy()) ||
			(side == types.PositionSideShort && o.IsSell()) {
			e.reject(o, fmt.Sprintf("Reduce-only order %s (%s-%s) would have increased position",
				o.ClientOrderID, o.Type, o.Side), false)
			return
		}
	}

	switch o.Type {
	case types.OrderTypeMarket:
		e.processMarketOrder(o)
	case types.OrderTypeLimit:
		e.processLimitOrder(o)
	case types.OrderTypeMarketToLimit:
		e.processMarketToLimitOrder(o)
	case types.OrderTypeStopMarket, types.OrderTypeMarketIfTouched:
		e.processMarketConditionalOrder(o)
	case types.OrderTypeStopLimit, types.OrderTypeLimitIfTouched:
		e.processLimitConditionalOrder(o)
	default:
		e.reject(o, fmt.Sprintf("Unsupported order type %s", o.Type), false)
	}
}

// hasMarket reports whether the side the order would take from has a
// price.
func (e *Engine) hasMarket(side types.Side) bool {
	if side == types.SideBuy {
		return e.core.IsAskInitialized()
	}
	return e.core.IsBidInitialized()
}

func (e *Engine) noMarket(o *types.Order) {
	e.reject(o, fmt.Sprintf("No market for %s", e.inst.ID), false)
}

func (e *Engine) processMarketOrder(o *types.Order) {
	if !e.hasMarket(o.Side) {
		e.noMarket(o)
		return
	}
	e.fillMarketOrder(o)
}

func (e *Engine) processLimitOrder(o *types.Order) {
	matched := e.core.IsLimitMatched(o.Side, o.Price)
	if matched && o.PostOnly {
		e.reject(o, fmt.Sprintf("POST_ONLY %s %s order limit px of %s would have been a TAKER: %s",
			o.Type, o.Side, o.Price, e.marketString()), true)
		return
	}

	e.accept(o)
	if matched {
		e.fillLimitOrder(o, types.LiquiditySideTaker)
		return
	}
	if o.TimeInForce == types.TimeInForceFOK || o.TimeInForce == types.TimeInForceIOC {
		e.cancelOrder(o)
	}
}

func (e *Engine) processMarketToLimitOrder(o *types.Order) {
	if !e.hasMarket(o.Side) {
		e.noMarket(o)
		return
	}
	e.fillMarketOrder(o)
	if o.IsOpen() || o.Status == types.OrderStatusSubmitted {
		e.accept(o)
	}
}

func (e *Engine) processMarketConditionalOrder(o *types.Order) {
	if !e.isTriggered(o) {
		e.accept(o)
		return
	}
	if e.RejectStopOrders.Get() {
		e.reject(o, fmt.Sprintf("%s %s order trigger px of %s was in the market: %s",
			o.Type, o.Side, o.TriggerPrice, e.marketString()), false)
		return
	}
	e.fillMarketOrder(o)
}

func (e *Engine) processLimitConditionalOrder(o *types.Order) {
	if !e.isTriggered(o) {
		e.accept(o)
		return
	}
	if e.RejectStopOrders.Get() {
		e.reject(o, fmt.Sprintf("%s %s order trigger px of %s was in the market: %s",
			o.Type, o.Side, o.TriggerPrice, e.marketString()), false)
		return
	}
	e.accept(o)
	e.emit(o, e.newEvent(o, types.OrderEventTriggered))
	if e.core.IsLimitMatched(o.Side, o.Price) {
		e.fillLimitOrder(o, types.LiquiditySideTaker)
	}
}

// ProcessModify applies the new quantity or prices to a resting order.
func (e *Engine) ProcessModify(cmd *types.ModifyOrder) {
	o, ok := e.core.Order(cmd.ClientOrderID)
	if !ok {
		e.rejectModify(nil, cmd.ClientOrderID, cmd.VenueOrderID, fmt.Sprintf("Order %s not found", cmd.ClientOrderID))
		return
	}
	if o.Status == types.OrderStatusPendingCancel {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Order %s pending cancel", o.ClientOrderID))
		return
	}

	qty := o.Quantity
	if cmd.Quantity != nil {
		qty = *cmd.Quantity
	}
	if qty <= o.FilledQty {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID,
			fmt.Sprintf("Modified quantity %d less than or equal to filled quantity %d", qty, o.FilledQty))
		return
	}
	if !e.inst.IsValidQuantity(qty) {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Invalid order quantity %d", qty))
		return
	}
	if e.inst.MinQuantity > 0 && qty < e.inst.MinQuantity {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Modified quantity %s below the minimum of %s for %s",
			e.inst.QuantityToDecimal(qty), e.inst.QuantityToDecimal(e.inst.MinQuantity), e.inst.ID))
		return
	}
	if e.inst.MaxQuantity > 0 && qty > e.inst.MaxQuantity {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Modified quantity %s above the maximum of %s for %s",
			e.inst.QuantityToDecimal(qty), e.inst.QuantityToDecimal(e.inst.MaxQuantity), e.inst.ID))
		return
	}
	for _, px := range []*num.Uint{cmd.Price, cmd.TriggerPrice} {
		if px != nil && !e.inst.IsValidPrice(px) {
			e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Invalid order price %s", px))
			return
		}
	}

	switch o.Type {
	case types.OrderTypeLimit, types.OrderTypeMarketToLimit:
		e.modifyLimitOrder(o, qty, cmd.Price)
	case types.OrderTypeStopMarket:
		trigger := orUint(cmd.TriggerPrice, o.TriggerPrice)
		if e.core.IsStopMatched(o.Side, trigger) {
			e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("%s %s order new stop px of %s was in the market: %s",
				o.Type, o.Side, trigger, e.marketString()))
			return
		}
		e.amend(o, qty, nil, cmd.TriggerPrice)
	case types.OrderTypeMarketIfTouched:
		trigger := orUint(cmd.TriggerPrice, o.TriggerPrice)
		if e.core.IsTouchTriggered(o.Side, trigger) {
			e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("%s %s order new trigger px of %s was in the market: %s",
				o.Type, o.Side, trigger, e.marketString()))
			return
		}
		e.amend(o, qty, nil, cmd.TriggerPrice)
	case types.OrderTypeStopLimit, types.OrderTypeLimitIfTouched:
		if o.IsTriggered {
			e.modifyLimitOrder(o, qty, cmd.Price)
			return
		}
		trigger := orUint(cmd.TriggerPrice, o.TriggerPrice)
		triggered := e.core.IsStopMatched(o.Side, trigger)
		if o.Type.IsIfTouched() {
			triggered = e.core.IsTouchTriggered(o.Side, trigger)
		}
		if triggered {
			e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("%s %s order new trigger px of %s was in the market: %s",
				o.Type, o.Side, trigger, e.marketString()))
			return
		}
		e.amend(o, qty, cmd.Price, cmd.TriggerPrice)
	default:
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Cannot modify %s order", o.Type))
	}
}

func (e *Engine) modifyLimitOrder(o *types.Order, qty uint64, price *num.Uint) {
	px := orUint(price, o.Price)
	if !e.core.IsLimitMatched(o.Side, px) {
		e.amend(o, qty, price, nil)
		return
	}
	if o.PostOnly {
		e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("POST_ONLY %s %s order new limit px of %s would have been a TAKER: %s",
			o.Type, o.Side, px, e.marketString()))
		return
	}
	if e.amend(o, qty, price, nil) {
		e.fillLimitOrder(o, types.LiquiditySideTaker)
	}
}

func (e *Engine) update(o *types.Order, qty uint64, price, trigger *num.Uint) bool {
	evt := e.newEvent(o, types.OrderEventUpdated)
	evt.Quantity = qty
	evt.Price = num.CloneOrNil(price)
	evt.TriggerPrice = num.CloneOrNil(trigger)
	return e.emit(o, evt)
}

// amend answers a modify command, an update the order refuses is turned
// into a modify rejection so the command never goes unanswered.
func (e *Engine) amend(o *types.Order, qty uint64, price, trigger *num.Uint) bool {
	if e.update(o, qty, price, trigger) {
		return true
	}
	e.rejectModify(o, o.ClientOrderID, o.VenueOrderID, fmt.Sprintf("Order %s cannot be updated when %s", o.ClientOrderID, o.Status))
	return false
}

func (e *Engine) rejectModify(o *types.Order, clientOrderID, venueOrderID, reason string) {
	e.log.Debug("modify rejected", logging.OrderID(clientOrderID), logging.String("reason", reason))
	evt := &types.OrderEvent{
		Type:          types.OrderEventModifyRejected,
		EventID:       e.eventIDs.NextID(),
		InstrumentID:  e.inst.ID,
		ClientOrderID: clientOrderID,
		VenueOrderID:  venueOrderID,
		Reason:        reason,
		TsEvent:       e.now,
		TsInit:        e.now,
	}
	if o != nil {
		evt.TraderID, evt.StrategyID, evt.AccountID = o.TraderID, o.StrategyID, o.AccountID
	}
	e.emit(o, evt)
}

func (e *Engine) rejectCancel(cmd *types.CancelOrder, reason string) {
	e.log.Debug("cancel rejected", logging.OrderID(cmd.ClientOrderID), logging.String("reason", reason))
	e.emit(nil, &types.OrderEvent{
		Type:          types.OrderEventCancelRejected,
		EventID:       e.eventIDs.NextID(),
		TraderID:      cmd.TraderID,
		StrategyID:    cmd.StrategyID,
		InstrumentID:  e.inst.ID,
		ClientOrderID: cmd.ClientOrderID,
		VenueOrderID:  cmd.VenueOrderID,
		Reason:        reason,
		TsEvent:       e.now,
		TsInit:        e.now,
	})
}

// ProcessCancel cancels a resting order, unknown orders are answered with
// a cancel rejection.
func (e *Engine) ProcessCancel(cmd *types.CancelOrder) {
	o, ok := e.core.Order(cmd.ClientOrderID)
	if !ok {
		e.rejectCancel(cmd, fmt.Sprintf("Order %s not found", cmd.ClientOrderID))
		return
	}
	if o.IsInflight() || o.IsOpen() {
		e.cancelOrder(o)
	}
}

// ProcessCancelAll cancels the open orders, on one side only unless side
// is unspecified.
func (e *Engine) ProcessCancelAll(cmd *types.CancelAllOrders) {
	for _, o := range e.core.Orders() {
		if cmd.Side != types.SideUnspecified && o.Side != cmd.Side {
			continue
		}
		if o.IsInflight() || o.IsOpen() {
			e.cancelOrder(o)
		}
	}
}

func (e *Engine) ProcessBatchCancel(cmd *types.BatchCancelOrders) {
	for _, c := range cmd.Cancels {
		e.ProcessCancel(c)
	}
}

func orUint(v, def *num.Uint) *num.Uint {
	if v != nil {
		return v
	}
	return def
}
