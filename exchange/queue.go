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
	"code.vegaprotocol.io/simex/types"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/trees/binaryheap"
)

type inflightCommand struct {
	due int64
	seq uint64
	cmd types.TradingCommand
}

func compareInflight(a, b interface{}) int {
	x, y := a.(*inflightCommand), b.(*inflightCommand)
	switch {
	case x.due < y.due:
		return -1
	case x.due > y.due:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	}
	return 0
}

// commandQueue holds the commands not yet seen by the matching engines,
// delayed commands in a min heap on their due time and the others in
// arrival order.
type commandQueue struct {
	inflight *binaryheap.Heap
	fifo     *linkedlistqueue.Queue
	// arrival sequence, orders commands due at the same time
	seq uint64
	// latest due time per order and per instrument
	lastDue map[string]int64
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		inflight: binaryheap.NewWith(compareInflight),
		fifo:     linkedlistqueue.New(),
		lastDue:  map[string]int64{},
	}
}

func instrumentKey(id string) string {
	return "instrument/" + id
}

func orderKey(instrumentID, clientOrderID string) string {
	return "order/" + instrumentID + "/" + clientOrderID
}

// schedule delays cmd by latency. A command never becomes due before a
// command already in flight for the same order, commands without order
// ids wait for every command in flight on the instrument.
func (q *commandQueue) schedule(cmd types.TradingCommand, latency uint64) int64 {
	due := cmd.GetTsInit() + int64(latency)

	ids := cmd.ClientOrderIDs()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, orderKey(cmd.GetInstrumentID(), id))
	}
	if len(ids) == 0 {
		keys = append(keys, instrumentKey(cmd.GetInstrumentID()))
	}
	for _, k := range keys {
		if last, ok := q.lastDue[k]; ok && last > due {
			due = last
		}
	}
	for _, k := range keys {
		q.lastDue[k] = due
	}
	if k := instrumentKey(cmd.GetInstrumentID()); q.lastDue[k] < due {
		q.lastDue[k] = due
	}

	q.seq++
	q.inflight.Push(&inflightCommand{due: due, seq: q.seq, cmd: cmd})
	return due
}

func (q *commandQueue) enqueue(cmd types.TradingCommand) {
	q.fifo.Enqueue(cmd)
}

// popDue returns the next command due at or before ts.
func (q *commandQueue) popDue(ts int64) (*inflightCommand, bool) {
	v, ok := q.inflight.Peek()
	if !ok || v.(*inflightCommand).due > ts {
		return nil, false
	}
	q.inflight.Pop()
	return v.(*inflightCommand), true
}

func (q *commandQueue) dequeue() (types.TradingCommand, bool) {
	v, ok := q.fifo.Dequeue()
	if !ok {
		return nil, false
	}
	return v.(types.TradingCommand), true
}

func (q *commandQueue) Len() int {
	return q.inflight.Size() + q.fifo.Size()
}

func (q *commandQueue) reset() {
	q.inflight.Clear()
	q.fifo.Clear()
	q.seq = 0
	q.lastDue = map[string]int64{}
}
