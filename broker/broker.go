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
	"code.vegaprotocol.io/simex/logging"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Subscriber interface allows pushing values to subscribers, Types and
// Topic select the events the subscriber receives.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.vegaprotocol.io/simex/broker Subscriber
type Subscriber interface {
	Push(val ...events.Event)
	Types() []events.Type
	Topic() events.Topic
	SetID(id int)
	ID() int
}

// BrokerI interface (horribly named) is declared here to provide a drop-in replacement for broker mocks used throughout
// in addition to providing the classical mockgen functionality, this mock can be used to check the actual events that will be generated
// so we don't have to rely on test-only helper functions.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.vegaprotocol.io/simex/broker BrokerI
type BrokerI interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
	Subscribe(s Subscriber) int
	Unsubscribe(k int)
}

// Broker - the base broker type. Events are delivered synchronously, in
// the order they were sent, to subscribers in subscription order, so a
// replay delivers exactly the same sequence every time.
type Broker struct {
	log *logging.Logger
	cfg Config

	mu   sync.Mutex
	seq  uint64
	subs map[int]Subscriber
	// keys are never reused, delivery order is subscription order
	next int
}

// New creates a new base broker.
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		log:  log,
		cfg:  config,
		subs: map[int]Subscriber{},
	}
}

// ReloadConf updates the internal configuration of the broker.
func (b *Broker) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
}

// Send sends an event to all subscribers.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch sends a slice of events, each subscriber receives the matching
// subset in one Push.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	for _, e := range evts {
		b.seq++
		e.SetSequenceNumber(b.seq)
		if b.cfg.LogEvents.Get() {
			b.log.Debug("sending event",
				logging.Uint64("seq", b.seq),
				logging.String("type", e.Type().String()),
			)
		}
	}
	subs := b.orderedSubs()
	b.mu.Unlock()

	for _, s := range subs {
		batch := make([]events.Event, 0, len(evts))
		for _, e := range evts {
			if wants(s, e) {
				batch = append(batch, e)
			}
		}
		if len(batch) > 0 {
			s.Push(batch...)
		}
	}
}

func wants(s Subscriber, e events.Event) bool {
	if !e.Topic().Matches(s.Topic()) {
		return false
	}
	ts := s.Types()
	if len(ts) == 0 {
		return true
	}
	for _, t := range ts {
		if t == events.All || t == e.Type() {
			return true
		}
	}
	return false
}

func (b *Broker) orderedSubs() []Subscriber {
	keys := maps.Keys(b.subs)
	slices.Sort(keys)
	out := make([]Subscriber, 0, len(keys))
	for _, k := range keys {
		out = append(out, b.subs[k])
	}
	return out
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	k := b.next
	b.subs[k] = s
	s.SetID(k)
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, k)
}

// SubscriberCount returns the number of subscribers receiving events of
// the given type.
func (b *Broker) SubscriberCount(t events.Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subs {
		ts := s.Types()
		if len(ts) == 0 || slices.Contains(ts, events.All) || slices.Contains(ts, t) {
			n++
		}
	}
	return n
}
