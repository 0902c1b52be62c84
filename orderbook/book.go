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

package orderbook

import (
	"fmt"
	"strings"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var (
	// ErrInstrumentMismatch signals data for another instrument was applied to the book.
	ErrInstrumentMismatch = errors.New("instrument does not match the book")
	// ErrTickOnL2Book quote and trade ticks only update top of book books.
	ErrTickOnL2Book       = errors.New("quote and trade ticks cannot update a market by price book")
	// ErrDeltaOnL1Book deltas only update market by price books.
	ErrDeltaOnL1Book      = errors.New("book deltas cannot update a top of book book")
	// ErrInvalidBookAction the delta action is not supported.
	ErrInvalidBookAction  = errors.New("invalid book action")
)

// OrderBook is the venue's view of the market liquidity for one instrument,
// either top of book (L1) or market by price (L2).
type OrderBook struct {
	instrumentID string
	bookType     types.BookType
	buy          *OrderBookSide
	sell         *OrderBookSide

	sequence    uint64
	tsLast      int64
	updateCount uint64
}

// New creates an empty book.
func New(instrumentID string, bookType types.BookType) *OrderBook {
	return &OrderBook{
		instrumentID: instrumentID,
		bookType:     bookType,
		buy:          newSide(types.SideBuy),
		sell:         newSide(types.SideSell),
	}
}

func (b *OrderBook) InstrumentID() string     { return b.instrumentID }
func (b *OrderBook) BookType() types.BookType { return b.bookType }
func (b *OrderBook) Sequence() uint64         { return b.sequence }
func (b *OrderBook) TsLast() int64            { return b.tsLast }
func (b *OrderBook) UpdateCount() uint64      { return b.updateCount }

func (b *OrderBook) touch(seq uint64, ts int64) {
	if seq > b.sequence {
		b.sequence = seq
	}
	b.tsLast = ts
	b.updateCount++
}

// UpdateQuoteTick replaces the top of book with the quote.
func (b *OrderBook) UpdateQuoteTick(q *types.QuoteTick) error {
	if q.InstrumentID != b.instrumentID {
		return ErrInstrumentMismatch
	}
	if b.bookType != types.BookTypeL1 {
		return ErrTickOnL2Book
	}
	b.updateTop(b.buy, q.BidPrice, q.BidSize)
	b.updateTop(b.sell, q.AskPrice, q.AskSize)
	b.touch(0, q.TsEvent)
	return nil
}

// UpdateTradeTick sets both sides of the book to the trade price and size.
func (b *OrderBook) UpdateTradeTick(t *types.TradeTick) error {
	if t.InstrumentID != b.instrumentID {
		return ErrInstrumentMismatch
	}
	if b.bookType != types.BookTypeL1 {
		return ErrTickOnL2Book
	}
	b.updateTop(b.buy, t.Price, t.Size)
	b.updateTop(b.sell, t.Price, t.Size)
	b.touch(0, t.TsEvent)
	return nil
}

func (b *OrderBook) updateTop(s *OrderBookSide, price *num.Uint, size uint64) {
	s.clear()
	if price == nil {
		return
	}
	// on a top of book the level is keyed by its price
	s.add(types.BookOrder{Side: s.side, Price: price, Size: size, OrderID: price.Uint64()})
}

// ApplyDelta applies a single market by price update.
func (b *OrderBook) ApplyDelta(d *types.BookDelta) error {
	if d.InstrumentID != b.instrumentID {
		return ErrInstrumentMismatch
	}
	if b.bookType != types.BookTypeL2 {
		return ErrDeltaOnL1Book
	}
	switch d.Action {
	case types.BookActionAdd, types.BookActionUpdate:
		s, err := b.side(d.Order.Side)
		if err != nil {
			return err
		}
		s.add(d.Order)
	case types.BookActionDelete:
		s, err := b.side(d.Order.Side)
		if err != nil {
			return err
		}
		s.delete(d.Order.OrderID)
	case types.BookActionClear:
		b.buy.clear()
		b.sell.clear()
	default:
		return ErrInvalidBookAction
	}
	b.touch(d.Sequence, d.TsEvent)
	return nil
}

// ApplyDeltas applies every delta in order, stopping at the first error.
func (b *OrderBook) ApplyDeltas(ds *types.BookDeltas) error {
	for i, d := range ds.Deltas {
		if err := b.ApplyDelta(d); err != nil {
			return errors.Wrapf(err, "delta %d", i)
		}
	}
	return nil
}

func (b *OrderBook) side(s types.Side) (*OrderBookSide, error) {
	switch s {
	case types.SideBuy:
		return b.buy, nil
	case types.SideSell:
		return b.sell, nil
	}
	return nil, types.ErrInvalidSide
}

// Clear removes every level from both sides.
func (b *OrderBook) Clear() {
	b.buy.clear()
	b.sell.clear()
}

func (b *OrderBook) HasBid() bool {
	_, ok := b.buy.top()
	return ok
}

func (b *OrderBook) HasAsk() bool {
	_, ok := b.sell.top()
	return ok
}

// BestBidPrice returns nil when there is no bid.
func (b *OrderBook) BestBidPrice() *num.Uint {
	if l, ok := b.buy.top(); ok {
		return l.Price()
	}
	return nil
}

// BestAskPrice returns nil when there is no ask.
func (b *OrderBook) BestAskPrice() *num.Uint {
	if l, ok := b.sell.top(); ok {
		return l.Price()
	}
	return nil
}

func (b *OrderBook) BestBidSize() uint64 {
	if l, ok := b.buy.top(); ok {
		return l.Size()
	}
	return 0
}

func (b *OrderBook) BestAskSize() uint64 {
	if l, ok := b.sell.top(); ok {
		return l.Size()
	}
	return 0
}

// Spread is ask - bid in ticks, negative when the book is crossed.
func (b *OrderBook) Spread() (num.Decimal, bool) {
	bid, ask := b.BestBidPrice(), b.BestAskPrice()
	if bid == nil || ask == nil {
		return num.DecimalZero(), false
	}
	return ask.ToDecimal().Sub(bid.ToDecimal()), true
}

// Midpoint in ticks, may be fractional.
func (b *OrderBook) Midpoint() (num.Decimal, bool) {
	bid, ask := b.BestBidPrice(), b.BestAskPrice()
	if bid == nil || ask == nil {
		return num.DecimalZero(), false
	}
	return ask.ToDecimal().Add(bid.ToDecimal()).Div(num.DecimalFromInt64(2)), true
}

// SimulateFills returns the fills an order of the given side, limit price
// and quantity would receive from the opposite side. The book is not
// modified. Use num.MaxUint() (buy) or zero (sell) for a market order.
func (b *OrderBook) SimulateFills(side types.Side, price *num.Uint, qty uint64) []Fill {
	switch side {
	case types.SideBuy:
		return b.sell.simulateFills(price, qty)
	case types.SideSell:
		return b.buy.simulateFills(price, qty)
	}
	return nil
}

// Bids returns up to depth levels from the best bid, 0 for all levels.
func (b *OrderBook) Bids(depth int) []Level {
	return b.buy.depth(depth)
}

// Asks returns up to depth levels from the best ask, 0 for all levels.
func (b *OrderBook) Asks(depth int) []Level {
	return b.sell.depth(depth)
}

// String prints the top five levels, asks above bids.
func (b *OrderBook) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "OrderBook %s %s seq=%d\n", b.instrumentID, b.bookType, b.sequence)
	asks := b.Asks(5)
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "  ask %s x %d\n", asks[i].Price, asks[i].Size)
	}
	for _, l := range b.Bids(5) {
		fmt.Fprintf(&sb, "  bid %s x %d\n", l.Price, l.Size)
	}
	return sb.String()
}
