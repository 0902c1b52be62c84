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
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/orderbook"
	"code.vegaprotocol.io/simex/types"
)

// fillMarketOrder takes the leaves quantity from the opposite side at any
// price.
func (e *Engine) fillMarketOrder(o *types.Order) {
	if filled, ok := e.filled.Get(o.ClientOrderID); ok && filled >= o.Quantity {
		return
	}
	if e.reduceOnlyWithoutPosition(o) {
		e.cancelOrder(o)
		return
	}

	px := num.MaxUint()
	if o.IsSell() {
		px = num.UintZero()
	}
	fills := e.book.SimulateFills(o.Side, px, o.LeavesQty())
	e.applyFills(o, fills, types.LiquiditySideTaker)
}

// fillLimitOrder takes the leaves quantity from the levels at or better
// than the limit price. Maker fills are done at the limit price.
func (e *Engine) fillLimitOrder(o *types.Order, liq types.LiquiditySide) {
	if liq == types.LiquiditySideMaker && e.atTouch(o) && !e.isLimitFilled() {
		return
	}
	if e.reduceOnlyWithoutPosition(o) {
		e.cancelOrder(o)
		return
	}

	fills := e.book.SimulateFills(o.Side, o.Price, o.LeavesQty())
	if liq == types.LiquiditySideMaker {
		for i := range fills {
			if (o.IsBuy() && fills[i].Price.LT(o.Price)) || (o.IsSell() && fills[i].Price.GT(o.Price)) {
				e.moveMarket(o)
			}
			fills[i].Price = o.Price.Clone()
		}
	}
	e.applyFills(o, fills, liq)
}

func (e *Engine) atTouch(o *types.Order) bool {
	if o.IsBuy() {
		return e.core.Bid() != nil && e.core.Bid().EQ(o.Price)
	}
	return e.core.Ask() != nil && e.core.Ask().EQ(o.Price)
}

// moveMarket brings the core to the limit price of a maker fill done
// through the limit so the other resting orders do not fill at the better
// price, the book prices are restored at the end of the iteration.
func (e *Engine) moveMarket(o *types.Order) {
	if e.targetLast == nil && e.core.IsLastInitialized() {
		e.targetLast = e.core.Last().Clone()
	}
	if o.IsBuy() {
		if e.targetAsk == nil && e.core.Ask() != nil {
			e.targetAsk = e.core.Ask().Clone()
		}
		e.core.SetAsk(o.Price)
	} else {
		if e.targetBid == nil && e.core.Bid() != nil {
			e.targetBid = e.core.Bid().Clone()
		}
		e.core.SetBid(o.Price)
	}
	e.core.SetLast(o.Price)
}

func (e *Engine) reduceOnlyWithoutPosition(o *types.Order) bool {
	if !e.UseReduceOnly.Get() || !o.ReduceOnly {
		return false
	}
	side, qty := e.positions.PositionSize(o)
	return side == types.PositionSideFlat || side == types.PositionSideUnspecified || qty == 0
}

func (e *Engine) isLimitFilled() bool {
	if e.fillModel == nil {
		return true
	}
	return e.fillModel.IsLimitFilled()
}

func (e *Engine) isSlipped() bool {
	if e.fillModel == nil {
		return false
	}
	return e.fillModel.IsSlipped()
}

// applyFills turns the simulated fills into fill events then applies the
// time in force of what is left.
func (e *Engine) applyFills(o *types.Order, fills []orderbook.Fill, liq types.LiquiditySide) {
	if o.TimeInForce == types.TimeInForceFOK {
		var total uint64
		for _, f := range fills {
			total += f.Qty
		}
		if total < o.LeavesQty() {
			e.cancelOrder(o)
			return
		}
	}

	if len(fills) == 0 {
		if o.Status == types.OrderStatusSubmitted {
			e.noMarket(o)
			return
		}
		e.log.Debug("no fills from book",
			logging.Order(o),
			logging.String("market", e.marketString()))
		return
	}

	posID := o.PositionID
	if len(posID) == 0 && e.positions != nil {
		posID = e.positions.PositionIDFor(o)
	}

	firstFill := o.FilledQty == 0
	for _, f := range fills {
		if o.IsClosed() {
			return
		}
		px, qty := f.Price, f.Qty

		if o.Type == types.OrderTypeMarketToLimit && firstFill {
			// the remainder rests as a limit at the first fill price
			e.update(o, 0, px, nil)
		}

		if liq == types.LiquiditySideTaker && e.bookType == types.BookTypeL1 && e.isSlipped() {
			px = e.slip(o.Side, px)
		}

		if e.UseReduceOnly.Get() && o.ReduceOnly {
			side, posQty := e.positions.PositionSize(o)
			if side == types.PositionSideFlat || posQty == 0 {
				break
			}
			if qty > posQty {
				e.update(o, o.FilledQty+posQty, nil, nil)
				qty = posQty
			}
		}

		e.fillOrder(o, px, qty, liq, posID)

		if o.Type == types.OrderTypeMarketToLimit && firstFill {
			break
		}
	}

	if o.IsClosed() {
		return
	}
	if e.reduceOnlyWithoutPosition(o) {
		e.cancelOrder(o)
		return
	}
	if o.TimeInForce == types.TimeInForceIOC || o.TimeInForce == types.TimeInForceFOK {
		e.cancelOrder(o)
		return
	}
	switch o.Type {
	case types.OrderTypeMarket, types.OrderTypeStopMarket, types.OrderTypeMarketIfTouched:
		// rests until the next top of book
		e.core.AddOrder(o)
	}
}

// slip moves the price one tick against the order.
func (e *Engine) slip(side types.Side, px *num.Uint) *num.Uint {
	inc := e.inst.PriceIncrement
	if side == types.SideBuy {
		return num.UintZero().Add(px, inc)
	}
	if px.LT(inc) {
		return px
	}
	return num.UintZero().Sub(px, inc)
}

// fillOrder generates a single fill event, the quantity is clipped so the
// order is never filled past its quantity.
func (e *Engine) fillOrder(o *types.Order, px *num.Uint, qty uint64, liq types.LiquiditySide, posID string) {
	filled, ok := e.filled.Get(o.ClientOrderID)
	if !ok {
		filled = e.filled.Add(o.ClientOrderID, o.FilledQty)
	}
	if filled >= o.Quantity {
		return
	}
	if qty > o.Quantity-filled {
		qty = o.Quantity - filled
	}
	if qty == 0 {
		return
	}

	commission := types.ZeroMoney(e.inst.QuoteCurrency)
	if e.fees != nil {
		c, err := e.fees.CalculateCommission(o, qty, px, liq, e.inst)
		if err != nil {
			e.log.Error("unable to calculate commission",
				logging.Order(o),
				logging.Error(err))
		} else {
			commission = c
		}
	}

	evt := e.newEvent(o, types.OrderEventFilled)
	if len(evt.VenueOrderID) == 0 {
		evt.VenueOrderID = e.venueOrderIDs.Next()
	}
	evt.Fill = &types.Fill{
		TradeID:       e.tradeIDs.NextID(),
		PositionID:    posID,
		Side:          o.Side,
		OrderType:     o.Type,
		LastQty:       qty,
		LastPx:        px.Clone(),
		Currency:      e.inst.QuoteCurrency,
		Commission:    commission,
		LiquiditySide: liq,
	}
	if !e.emit(o, evt) {
		return
	}
	e.filled.Add(o.ClientOrderID, qty)

	if o.IsClosed() {
		e.remove(o)
	}
}
