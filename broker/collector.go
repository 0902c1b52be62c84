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

package broker

import (
	"sync"

	"code.vegaprotocol.io/simex/events"
)

// Collector is a subscriber keeping every event it receives, in order.
type Collector struct {
	mu    sync.RWMutex
	id    int
	types []events.Type
	topic events.Topic
	evts  []events.Event
}

func NewCollector(topic events.Topic, types ...events.Type) *Collector {
	return &Collector{
		types: types,
		topic: topic,
	}
}

func (c *Collector) Push(evts ...events.Event) {
	c.mu.Lock()
	c.evts = append(c.evts, evts...)
	c.mu.Unlock()
}

func (c *Collector) Types() []events.Type { return c.types }
func (c *Collector) Topic() events.Topic  { return c.topic }
func (c *Collector) SetID(id int)         { c.id = id }
func (c *Collector) ID() int              { return c.id }

// Events returns a copy of everything received so far.
func (c *Collector) Events() []events.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]events.Event, len(c.evts))
	copy(out, c.evts)
	return out
}

// Drain returns and forgets the received events.
func (c *Collector) Drain() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.evts
	c.evts = nil
	return out
}

func (c *Collector) OrderEvents() []*events.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []*events.Order{}
	for _, e := range c.evts {
		if oe, ok := e.(*events.Order); ok {
			out = append(out, oe)
		}
	}
	return out
}

func (c *Collector) PositionEvents() []*events.Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []*events.Position{}
	for _, e := range c.evts {
		if pe, ok := e.(*events.Position); ok {
			out = append(out, pe)
		}
	}
	return out
}

func (c *Collector) AccountEvents() []*events.Acc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []*events.Acc{}
	for _, e := range c.evts {
		if ae, ok := e.(*events.Acc); ok {
			out = append(out, ae)
		}
	}
	return out
}
