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
	"code.vegaprotocol.io/simex/types"
)

// Core holds the prices the orders are matched against and the resting
// orders of one instrument, bids and asks in arrival order.
type Core struct {
	instrumentID string

	bid  *num.Uint
	ask  *num.Uint
	last *num.Uint

	bidInitialized  bool
	askInitialized  bool
	lastInitialized bool

	bids []*types.Order
	asks []*types.Order
}

func NewCore(instrumentID string) *Core {
	return &Core{instrumentID: instrumentID}
}

func (c *Core) InstrumentID() string    { return c.instrumentID }
func (c *Core) Bid() *num.Uint          { return c.bid }
func (c *Core) Ask() *num.Uint          { return c.ask }
func (c *Core) Last() *num.Uint         { return c.last }
func (c *Core) IsBidInitialized() bool  { return c.bidInitialized }
func (c *Core) IsAskInitialized() bool  { return c.askInitialized }
func (c *Core) IsLastInitialized() bool { return c.lastInitialized }

func (c *Core) SetBid(p *num.Uint) {
	c.bid = p.Clone()
	c.bidInitialized = true
}

func (c *Core) SetAsk(p *num.Uint) {
	c.ask = p.Clone()
	c.askInitialized = true
}

func (c *Core) SetLast(p *num.Uint) {
	c.last = p.Clone()
	c.lastInitialized = true
}

// Reset forgets the prices and the resting orders.
func (c *Core) Reset() {
	c.bid, c.ask, c.last = nil, nil, nil
	c.bidInitialized, c.askInitialized, c.lastInitialized = false, false, false
	c.bids, c.asks = nil, nil
}

func (c *Core) side(s types.Side) *[]*types.Order {
	if s == types.SideBuy {
		return &c.bids
	}
	return &c.asks
}

// AddOrder rests the order, adding an order twice is a no-op.
func (c *Core) AddOrder(o *types.Order) {
	if c.OrderExists(o.ClientOrderID) {
		return
	}
	orders := c.side(o.Side)
	*orders = append(*orders, o)
}

// DeleteOrder returns false when the order was not resting.
func (c *Core) DeleteOrder(o *types.Order) bool {
	orders := c.side(o.Side)
	for i, ro := range *orders {
		if ro.ClientOrderID == o.ClientOrderID {
			*orders = append((*orders)[:i], (*orders)[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Core) Order(clientOrderID string) (*types.Order, bool) {
	for _, o := range c.bids {
		if o.ClientOrderID == clientOrderID {
			return o, true
		}
	}
	for _, o := range c.asks {
		if o.ClientOrderID == clientOrderID {
			return o, true
		}
	}
	return nil, false
}

func (c *Core) OrderExists(clientOrderID string) bool {
	_, ok := c.Order(clientOrderID)
	return ok
}

// BidOrders returns a copy, the slice can be iterated while orders are
// deleted.
func (c *Core) BidOrders() []*types.Order {
	return append([]*types.Order(nil), c.bids...)
}

func (c *Core) AskOrders() []*types.Order {
	return append([]*types.Order(nil), c.asks...)
}

// Orders returns bids then asks.
func (c *Core) Orders() []*types.Order {
	out := make([]*types.Order, 0, len(c.bids)+len(c.asks))
	out = append(out, c.bids...)
	return append(out, c.asks...)
}

// IsLimitMatched is true when a limit order at price would trade: the ask
// at or below a buy, the bid at or above a sell.
func (c *Core) IsLimitMatched(side types.Side, price *num.Uint) bool {
	switch side {
	case types.SideBuy:
		return c.ask != nil && c.ask.LTE(price)
	case types.SideSell:
		return c.bid != nil && c.bid.GTE(price)
	}
	return false
}

// IsStopMatched is true once the market moved through the trigger: the ask
// at or above a buy stop, the bid at or below a sell stop.
func (c *Core) IsStopMatched(side types.Side, trigger *num.Uint) bool {
	switch side {
	case types.SideBuy:
		return c.ask != nil && c.ask.GTE(trigger)
	case types.SideSell:
		return c.bid != nil && c.bid.LTE(trigger)
	}
	return false
}

// IsTouchTriggered is the if-touched trigger: the ask at or below a buy,
// the bid at or above a sell.
func (c *Core) IsTouchTriggered(side types.Side, trigger *num.Uint) bool {
	return c.IsLimitMatched(side, trigger)
}
