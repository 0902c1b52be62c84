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
	"github.com/google/btree"
)

type ordersAtTS struct {
	ts int64
	// client order IDs
	orders []string
}

func lessOrdersAtTS(a, b *ordersAtTS) bool {
	return a.ts < b.ts
}

// ExpiringOrders indexes the GTD orders by expire time.
type ExpiringOrders struct {
	orders *btree.BTreeG[*ordersAtTS]
}

func NewExpiringOrders() *ExpiringOrders {
	return &ExpiringOrders{
		orders: btree.NewG(2, lessOrdersAtTS),
	}
}

// Len is the number of distinct expire times.
func (a *ExpiringOrders) Len() int {
	return a.orders.Len()
}

// Orders returns the indexed order IDs by expire time.
func (a *ExpiringOrders) Orders() []string {
	orders := make([]string, 0, a.orders.Len())
	a.orders.Ascend(func(item *ordersAtTS) bool {
		orders = append(orders, item.orders...)
		return true
	})
	return orders
}

func (a *ExpiringOrders) Insert(clientOrderID string, ts int64) {
	if item, ok := a.orders.Get(&ordersAtTS{ts: ts}); ok {
		item.orders = append(item.orders, clientOrderID)
		return
	}
	a.orders.ReplaceOrInsert(&ordersAtTS{ts: ts, orders: []string{clientOrderID}})
}

func (a *ExpiringOrders) RemoveOrder(expiresAt int64, clientOrderID string) bool {
	item, ok := a.orders.Get(&ordersAtTS{ts: expiresAt})
	if !ok {
		return false
	}
	for i := 0; i < len(item.orders); i++ {
		if item.orders[i] == clientOrderID {
			item.orders = item.orders[:i+copy(item.orders[i:], item.orders[i+1:])]

			// if the slice is empty, remove the parent container
			if len(item.orders) == 0 {
				a.orders.Delete(item)
			}
			return true
		}
	}
	return false
}

// Expire removes and returns the orders expiring at or before ts, in
// expire time then insertion order.
func (a *ExpiringOrders) Expire(ts int64) []string {
	if a.orders.Len() == 0 {
		return nil
	}
	orders := []string{}
	toDelete := []*ordersAtTS{}
	a.orders.AscendLessThan(&ordersAtTS{ts: ts + 1}, func(item *ordersAtTS) bool {
		orders = append(orders, item.orders...)
		toDelete = append(toDelete, item)
		return true
	})

	for _, item := range toDelete {
		a.orders.Delete(item)
	}
	return orders
}

func (a *ExpiringOrders) Reset() {
	a.orders.Clear(false)
}
