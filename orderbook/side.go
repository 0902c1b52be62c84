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
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/google/btree"
)

// Level is a read only view of a price level.
type Level struct {
	Price *num.Uint
	Size  uint64
	Count int
}

// OrderBookSide represent a side of the book, either Sell or Buy.
type OrderBookSide struct {
	side   types.Side
	levels *btree.BTreeG[*PriceLevel]
	// book order id -> price of the level holding it
	index map[uint64]*num.Uint
}

func newSide(side types.Side) *OrderBookSide {
	return &OrderBookSide{
		side:   side,
		levels: btree.NewG(2, lessPriceLevel),
		index:  map[uint64]*num.Uint{},
	}
}

func (s *OrderBookSide) getPriceLevel(price *num.Uint) *PriceLevel {
	if l, ok := s.levels.Get(&PriceLevel{price: price}); ok {
		return l
	}
	l := newPriceLevel(price)
	s.levels.ReplaceOrInsert(l)
	return l
}

// add inserts the order, or moves it when it already exists at another
// price. A zero size removes it.
func (s *OrderBookSide) add(o types.BookOrder) {
	if o.Size == 0 {
		s.delete(o.OrderID)
		return
	}
	if px, ok := s.index[o.OrderID]; ok && !px.EQ(o.Price) {
		s.delete(o.OrderID)
	}
	s.getPriceLevel(o.Price).set(o.OrderID, o.Size)
	s.index[o.OrderID] = o.Price.Clone()
}

func (s *OrderBookSide) delete(id uint64) {
	px, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	l, ok := s.levels.Get(&PriceLevel{price: px})
	if !ok {
		return
	}
	l.remove(id)
	if l.isEmpty() {
		s.levels.Delete(l)
	}
}

func (s *OrderBookSide) clear() {
	s.levels.Clear(false)
	s.index = map[uint64]*num.Uint{}
}

// top returns the best level, highest bid or lowest ask.
func (s *OrderBookSide) top() (*PriceLevel, bool) {
	if s.side == types.SideBuy {
		return s.levels.Max()
	}
	return s.levels.Min()
}

// iterate walks levels from the best price outwards.
func (s *OrderBookSide) iterate(fn func(l *PriceLevel) bool) {
	if s.side == types.SideBuy {
		s.levels.Descend(fn)
		return
	}
	s.levels.Ascend(fn)
}

func (s *OrderBookSide) depth(n int) []Level {
	out := make([]Level, 0, s.levels.Len())
	s.iterate(func(l *PriceLevel) bool {
		if n > 0 && len(out) >= n {
			return false
		}
		out = append(out, Level{Price: l.Price(), Size: l.size, Count: l.Len()})
		return true
	})
	return out
}

// Fill is a simulated execution against a book level.
type Fill struct {
	Price *num.Uint
	Qty   uint64
}

// simulateFills walks the side from the best level while the level price
// is acceptable to the taker price, without consuming liquidity.
func (s *OrderBookSide) simulateFills(price *num.Uint, qty uint64) []Fill {
	fills := []Fill{}
	remaining := qty
	s.iterate(func(l *PriceLevel) bool {
		if remaining == 0 {
			return false
		}
		if s.side == types.SideBuy && l.price.LT(price) {
			return false
		}
		if s.side == types.SideSell && l.price.GT(price) {
			return false
		}
		if l.size == 0 {
			return true
		}
		size := l.size
		if size > remaining {
			size = remaining
		}
		fills = append(fills, Fill{Price: l.Price(), Qty: size})
		remaining -= size
		return true
	})
	return fills
}
