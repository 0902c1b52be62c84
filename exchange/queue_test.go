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
	"testing"

	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cancelAt(clientOrderID string, ts int64) *types.CancelOrder {
	return &types.CancelOrder{InstrumentID: "AUD/USD.SIM", ClientOrderID: clientOrderID, TsInit: ts}
}

func TestCommandQueueOrdersByDueTime(t *testing.T) {
	q := newCommandQueue()
	q.schedule(cancelAt("O-1", 100), 50)
	q.schedule(cancelAt("O-2", 100), 10)
	q.schedule(cancelAt("O-3", 100), 10)
	assert.Equal(t, 3, q.Len())

	_, ok := q.popDue(109)
	assert.False(t, ok)

	got := []string{}
	for {
		c, ok := q.popDue(150)
		if !ok {
			break
		}
		got = append(got, c.cmd.ClientOrderIDs()[0])
	}
	// same due time keeps the arrival order
	assert.Equal(t, []string{"O-2", "O-3", "O-1"}, got)
	assert.Equal(t, 0, q.Len())
}

func TestCommandQueueKeepsOrderCommandsInSequence(t *testing.T) {
	q := newCommandQueue()
	due := q.schedule(cancelAt("O-1", 100), 50)
	assert.Equal(t, int64(150), due)

	// a faster command on the same order waits for the first one
	due = q.schedule(cancelAt("O-1", 110), 0)
	assert.Equal(t, int64(150), due)

	// other orders are not held back
	due = q.schedule(cancelAt("O-2", 110), 0)
	assert.Equal(t, int64(110), due)

	// cancel all waits for everything in flight on the instrument
	due = q.schedule(&types.CancelAllOrders{InstrumentID: "AUD/USD.SIM", TsInit: 120}, 0)
	assert.Equal(t, int64(150), due)

	c, ok := q.popDue(150)
	require.True(t, ok)
	assert.Equal(t, int64(110), c.due)
	c, ok = q.popDue(150)
	require.True(t, ok)
	assert.Equal(t, []string{"O-1"}, c.cmd.ClientOrderIDs())
	assert.Equal(t, int64(100), c.cmd.GetTsInit())
}

func TestCommandQueueFIFOAndReset(t *testing.T) {
	q := newCommandQueue()
	q.enqueue(cancelAt("O-1", 1))
	q.enqueue(cancelAt("O-2", 2))
	q.schedule(cancelAt("O-3", 3), 5)
	assert.Equal(t, 3, q.Len())

	cmd, ok := q.dequeue()
	require.True(t, ok)
	assert.Equal(t, []string{"O-1"}, cmd.ClientOrderIDs())

	q.reset()
	assert.Equal(t, 0, q.Len())
	_, ok = q.dequeue()
	assert.False(t, ok)

	// due times from before the reset are forgotten
	assert.Equal(t, int64(4), q.schedule(cancelAt("O-3", 4), 0))
}
