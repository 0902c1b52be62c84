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

package events

import (
	"context"
)

type Type int

// Base common denominator all event-bus events share.
type Base struct {
	ctx   context.Context
	seq   uint64
	et    Type
	ts    int64
	topic Topic
}

// Topic is the key subscribers filter on, an empty field matches anything.
type Topic struct {
	TraderID     string
	StrategyID   string
	InstrumentID string
}

// Matches returns true when every non empty field of the filter equals
// the topic.
func (t Topic) Matches(filter Topic) bool {
	if len(filter.TraderID) > 0 && filter.TraderID != t.TraderID {
		return false
	}
	if len(filter.StrategyID) > 0 && filter.StrategyID != t.StrategyID {
		return false
	}
	if len(filter.InstrumentID) > 0 && filter.InstrumentID != t.InstrumentID {
		return false
	}
	return true
}

type Event interface {
	Type() Type
	Context() context.Context
	Sequence() uint64
	SetSequenceNumber(uint64)
	Timestamp() int64
	Topic() Topic
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload.
	All Type = iota
	// other event types that DO have corresponding event types.
	OrderEvent
	PositionEvent
	AccountEvent
	MarketStatusEvent
)

var eventStrings = map[Type]string{
	All:               "ALL",
	OrderEvent:        "OrderEvent",
	PositionEvent:     "PositionEvent",
	AccountEvent:      "AccountEvent",
	MarketStatusEvent: "MarketStatusEvent",
}

// A base event holds no data, so the constructor will not be called directly.
func newBase(ctx context.Context, t Type, ts int64, topic Topic) *Base {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Base{
		ctx:   ctx,
		et:    t,
		ts:    ts,
		topic: topic,
	}
}

// Sequence returns event sequence number, assigned by the broker.
func (b Base) Sequence() uint64 {
	return b.seq
}

// SetSequenceNumber is called by the broker when the event is sent.
func (b *Base) SetSequenceNumber(seq uint64) {
	b.seq = seq
}

// Context returns context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

// Timestamp of the simulated clock when the event was generated.
func (b Base) Timestamp() int64 {
	return b.ts
}

func (b Base) Topic() Topic {
	return b.topic
}

// String get string representation of event type.
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
