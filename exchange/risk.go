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

package exchange

import (
	"fmt"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/types"
)

// denyReason runs the pre-trade checks of a submitted order, an empty
// reason lets the order through to the matching engine.
func (e *Exchange) denyReason(me *matching.Engine, o *types.Order, ts int64) string {
	inst := me.Instrument()

	if _, ok := e.orders[o.ClientOrderID]; ok {
		return fmt.Sprintf("Duplicate client order id %s", o.ClientOrderID)
	}
	if inst.MinQuantity > 0 && o.Quantity < inst.MinQuantity {
		return fmt.Sprintf("Quantity %s below the minimum of %s for %s",
			inst.QuantityToDecimal(o.Quantity), inst.QuantityToDecimal(inst.MinQuantity), inst.ID)
	}
	if inst.MaxQuantity > 0 && o.Quantity > inst.MaxQuantity {
		return fmt.Sprintf("Quantity %s above the maximum of %s for %s",
			inst.QuantityToDecimal(o.Quantity), inst.QuantityToDecimal(inst.MaxQuantity), inst.ID)
	}
	if o.TimeInForce == types.TimeInForceGTD && o.ExpireTime <= ts {
		return fmt.Sprintf("GTD expire time %d is not after %d", o.ExpireTime, ts)
	}
	if o.QuoteQuantity && !inst.AllowQuoteQuantity {
		return fmt.Sprintf("Quote quantity orders are not supported on %s", inst.ID)
	}

	side, qty := e.positions.PositionSize(o)
	if err := e.accounts.PreTradeCheck(o, inst, referencePrice(me, o.Side), side, qty); err != nil {
		return err.Error()
	}
	return ""
}

// referencePrice is the price a market order of the side would take,
// the last trade when that side of the book is empty.
func referencePrice(me *matching.Engine, side types.Side) *num.Uint {
	var px *num.Uint
	if side == types.SideBuy {
		px = me.BestAskPrice()
	} else {
		px = me.BestBidPrice()
	}
	if px == nil && me.Core().IsLastInitialized() {
		px = me.Core().Last()
	}
	return px
}
