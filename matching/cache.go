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

type cachedQty struct {
	valid bool
	value uint64
}

func (c *cachedQty) Set(u uint64) {
	c.value = u
	c.valid = true
}

func (c *cachedQty) Get() (uint64, bool) {
	return c.value, c.valid
}

// FillCache keeps the quantity filled per order while its fill events are
// being generated, an order is never filled past its quantity.
type FillCache struct {
	filled map[string]*cachedQty
}

func NewFillCache() *FillCache {
	return &FillCache{filled: map[string]*cachedQty{}}
}

func (c *FillCache) Get(clientOrderID string) (uint64, bool) {
	if q, ok := c.filled[clientOrderID]; ok {
		return q.Get()
	}
	return 0, false
}

// Add records qty more filled and returns the new total.
func (c *FillCache) Add(clientOrderID string, qty uint64) uint64 {
	q, ok := c.filled[clientOrderID]
	if !ok {
		q = &cachedQty{}
		c.filled[clientOrderID] = q
	}
	q.Set(q.value + qty)
	return q.value
}

func (c *FillCache) Invalidate(clientOrderID string) {
	delete(c.filled, clientOrderID)
}

func (c *FillCache) Reset() {
	c.filled = map[string]*cachedQty{}
}
