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

package matching_test

import (
	"testing"

	"code.vegaprotocol.io/simex/matching"

	"github.com/stretchr/testify/assert"
)

func TestExpiringOrders(t *testing.T) {
	t.Run("expire orders ", testExpireOrders)
	t.Run("remove order", testRemoveExpiringOrder)
}

func testExpireOrders(t *testing.T) {
	eo := matching.NewExpiringOrders()
	eo.Insert("1", 100)
	eo.Insert("2", 110)
	eo.Insert("3", 140)
	eo.Insert("4", 140)
	eo.Insert("5", 160)
	eo.Insert("6", 170)
	assert.Equal(t, 5, eo.Len())

	// remove them once
	orders := eo.Expire(140)
	assert.Equal(t, []string{"1", "2", "3", "4"}, orders)

	// try again to remove to check if they are still there.
	orders = eo.Expire(140)
	assert.Equal(t, 0, len(orders))

	// now try to remove one more
	orders = eo.Expire(160)
	assert.Equal(t, []string{"5"}, orders)
	assert.Equal(t, []string{"6"}, eo.Orders())

	eo.Reset()
	assert.Nil(t, eo.Expire(1000))
}

func testRemoveExpiringOrder(t *testing.T) {
	eo := matching.NewExpiringOrders()
	eo.Insert("1", 100)
	eo.Insert("2", 100)

	assert.False(t, eo.RemoveOrder(110, "1"))
	assert.False(t, eo.RemoveOrder(100, "3"))
	assert.True(t, eo.RemoveOrder(100, "1"))
	assert.Equal(t, 1, eo.Len())
	assert.True(t, eo.RemoveOrder(100, "2"))
	assert.Equal(t, 0, eo.Len())
	assert.Empty(t, eo.Expire(100))
}
