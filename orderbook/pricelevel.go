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
)

// PriceLevel aggregates every book order resting at one price. Orders keep
// their arrival order so depth snapshots are stable.
type PriceLevel struct {
	price  *num.Uint
	orders map[uint64]uint64
	ids    []uint64
	size   uint64
}

func newPriceLevel(price *num.Uint) *PriceLevel {
	return &PriceLevel{
		price:  price.Clone(),
		orders: map[uint64]uint64{},
	}
}

func lessPriceLevel(a, b *PriceLevel) bool {
	return a.price.LT(b.price)
}

// Price of the level.
func (l *PriceLevel) Price() *num.Uint {
	return l.price.Clone()
}

// Size is the total size resting at the level.
func (l *PriceLevel) Size() uint64 {
	return l.size
}

// Len returns the number of book orders at the level.
func (l *PriceLevel) Len() int {
	return len(l.ids)
}

func (l *PriceLevel) isEmpty() bool {
	return len(l.ids) == 0
}

// set adds the order or replaces its size.
func (l *PriceLevel) set(id, size uint64) {
	if old, ok := l.orders[id]; ok {
		l.size = l.size - old + size
		l.orders[id] = size
		return
	}
	l.orders[id] = size
	l.ids = append(l.ids, id)
	l.size += size
}

func (l *PriceLevel) remove(id uint64) {
	old, ok := l.orders[id]
	if !ok {
		return
	}
	delete(l.orders, id)
	l.size -= old
	for i, v := range l.ids {
		if v == id {
			copy(l.ids[i:], l.ids[i+1:])
			l.ids = l.ids[:len(l.ids)-1]
			break
		}
	}
}
