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

package positions

import (
	"context"
	"sort"

	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/idgeneration"
	"code.vegaprotocol.io/simex/libs/crypto"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

// Broker (no longer need to mock this, use the broker/mocks wrapper).
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Engine represents the positions engine, it owns every position of the
// venue and publishes a position event for each fill applied.
type Engine struct {
	log *logging.Logger
	Config

	oms    types.OmsType
	broker Broker

	instruments map[string]*types.Instrument
	// position id -> position
	positions map[string]*Position
	// creation order of the positions
	ids     []string
	counter *idgeneration.Counter
}

// New instantiates a new positions engine.
func New(log *logging.Logger, config Config, broker Broker) (*Engine, error) {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	oms, err := types.OmsTypeFromString(config.OmsType)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidOmsType, config.OmsType)
	}

	return &Engine{
		log:         log,
		Config:      config,
		oms:         oms,
		broker:      broker,
		instruments: map[string]*types.Instrument{},
		positions:   map[string]*Position{},
		counter:     idgeneration.NewCounter(config.PositionIDPrefix),
	}, nil
}

// ReloadConf update the internal configuration of the positions engine.
// The oms type is fixed for the life time of the engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	if cfg.OmsType != e.Config.OmsType {
		e.log.Warn("oms type cannot be changed at runtime",
			logging.String("current", e.Config.OmsType),
			logging.String("requested", cfg.OmsType))
		cfg.OmsType = e.Config.OmsType
	}
	e.Config = cfg
}

func (e *Engine) OmsType() types.OmsType {
	return e.oms
}

func (e *Engine) AddInstrument(inst *types.Instrument) {
	e.instruments[inst.ID] = inst
}

func nettingID(instrumentID, strategyID string) string {
	return instrumentID + "-" + strategyID
}

// PositionIDFor returns the id the next fill of the order is booked
// against. Under HEDGING an order without a position id opens a new one.
func (e *Engine) PositionIDFor(o *types.Order) string {
	if e.oms == types.OmsTypeNetting {
		return nettingID(o.InstrumentID, o.StrategyID)
	}
	if len(o.PositionID) > 0 {
		return o.PositionID
	}
	return e.counter.Next()
}

// PositionForOrder returns the position the order would trade against, if
// one exists.
func (e *Engine) PositionForOrder(o *types.Order) (*Position, bool) {
	id := o.PositionID
	if e.oms == types.OmsTypeNetting {
		id = nettingID(o.InstrumentID, o.StrategyID)
	}
	if len(id) == 0 {
		return nil, false
	}
	p, ok := e.positions[id]
	return p, ok
}

// PositionSize returns the side and quantity of the position the order
// trades against, flat when there is none.
func (e *Engine) PositionSize(o *types.Order) (types.PositionSide, uint64) {
	p, ok := e.PositionForOrder(o)
	if !ok {
		return types.PositionSideFlat, 0
	}
	return p.Side(), p.Quantity()
}

// Position returns the position with the given id.
func (e *Engine) Position(id string) (*Position, error) {
	p, ok := e.positions[id]
	if !ok {
		return nil, errors.Wrap(ErrPositionNotFound, id)
	}
	return p, nil
}

// Positions returns every position of the instrument in creation order,
// all positions when instrumentID is empty.
func (e *Engine) Positions(instrumentID string) []*Position {
	out := make([]*Position, 0, len(e.ids))
	for _, id := range e.ids {
		p := e.positions[id]
		if len(instrumentID) == 0 || p.InstrumentID() == instrumentID {
			out = append(out, p)
		}
	}
	return out
}

// OpenPositions is Positions filtered on the open ones.
func (e *Engine) OpenPositions(instrumentID string) []*Position {
	all := e.Positions(instrumentID)
	out := all[:0]
	for _, p := range all {
		if p.IsOpen() {
			out = append(out, p)
		}
	}
	return out
}

// NetQty is the signed quantity summed over the open positions of the
// instrument.
func (e *Engine) NetQty(instrumentID string) int64 {
	var net int64
	for _, p := range e.OpenPositions(instrumentID) {
		net += p.SignedQty()
	}
	return net
}

// FillPnL returns the P&L the fill realizes on the position it will be
// applied to, to be called before ApplyFill.
func (e *Engine) FillPnL(evt *types.OrderEvent) num.Decimal {
	if evt.Fill == nil {
		return num.DecimalZero()
	}
	id := evt.Fill.PositionID
	if e.oms == types.OmsTypeNetting {
		id = nettingID(evt.InstrumentID, evt.StrategyID)
	}
	pos, ok := e.positions[id]
	if !ok {
		return num.DecimalZero()
	}
	return pos.ClosingPnL(evt.Fill)
}

// ApplyFill books a fill, the position id is taken from the fill. A fill
// larger than the open quantity on the reducing side closes the position
// and opens a new one on the other side for the excess, reduce only
// fills are not allowed to do that.
func (e *Engine) ApplyFill(ctx context.Context, evt *types.OrderEvent, reduceOnly bool) ([]types.PositionSnapshot, error) {
	f := evt.Fill
	if evt.Type != types.OrderEventFilled || f == nil {
		return nil, ErrNotAFill
	}
	inst, ok := e.instruments[evt.InstrumentID]
	if !ok {
		return nil, errors.Wrap(types.ErrInvalidInstrument, evt.InstrumentID)
	}

	id := f.PositionID
	if len(id) == 0 {
		id = e.PositionIDFor(&types.Order{InstrumentID: evt.InstrumentID, StrategyID: evt.StrategyID})
	}

	var snaps []types.PositionSnapshot
	pos, ok := e.positions[id]
	switch {
	case !ok:
		p, err := NewPosition(inst, id, evt)
		if err != nil {
			return nil, err
		}
		e.add(p)
		snaps = append(snaps, p.Snapshot(types.PositionEventOpened, f.LastPx))
	case pos.IsOpen() && pos.IsOppositeSide(f.Side) && f.LastQty > pos.Quantity():
		if reduceOnly {
			e.log.Error("reduce only fill would flip the position",
				logging.PositionID(id),
				logging.OrderID(evt.ClientOrderID))
			return nil, errors.Wrap(ErrReduceOnlyWouldFlip, id)
		}
		s, err := e.flip(inst, pos, evt)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, s...)
	default:
		wasFlat := pos.IsClosed()
		if err := pos.Apply(evt); err != nil {
			return nil, err
		}
		t := types.PositionEventChanged
		if pos.IsClosed() {
			t = types.PositionEventClosed
		} else if wasFlat {
			t = types.PositionEventOpened
		}
		snaps = append(snaps, pos.Snapshot(t, f.LastPx))
	}

	evts := make([]events.Event, 0, len(snaps))
	for _, s := range snaps {
		evts = append(evts, events.NewPositionEvent(ctx, s))
	}
	e.broker.SendBatch(evts)
	return snaps, nil
}

// flip splits the fill into a closing part and an opening part, the
// commission is split pro rata.
func (e *Engine) flip(inst *types.Instrument, pos *Position, fill *types.OrderEvent) ([]types.PositionSnapshot, error) {
	f := fill.Fill
	closeQty := pos.Quantity()
	openQty := f.LastQty - closeQty

	closeComm := f.Commission.Amount.Mul(num.DecimalFromUint64(closeQty)).Div(num.DecimalFromUint64(f.LastQty))
	closing := fill.Clone()
	closing.Fill.LastQty = closeQty
	closing.Fill.Commission = types.NewMoney(closeComm, f.Commission.Currency)

	opening := fill.Clone()
	opening.Fill.LastQty = openQty
	opening.Fill.Commission = types.NewMoney(f.Commission.Amount.Sub(closeComm), f.Commission.Currency)

	if err := pos.Apply(closing); err != nil {
		return nil, err
	}
	snaps := []types.PositionSnapshot{pos.Snapshot(types.PositionEventClosed, f.LastPx)}

	if e.oms == types.OmsTypeNetting {
		if err := pos.Apply(opening); err != nil {
			return nil, err
		}
		return append(snaps, pos.Snapshot(types.PositionEventOpened, f.LastPx)), nil
	}

	id := e.counter.Next()
	opening.Fill.PositionID = id
	p, err := NewPosition(inst, id, opening)
	if err != nil {
		return nil, err
	}
	e.add(p)
	e.log.Debug("position flipped",
		logging.PositionID(pos.ID()),
		logging.String("new-position-id", id))
	return append(snaps, p.Snapshot(types.PositionEventOpened, f.LastPx)), nil
}

func (e *Engine) add(p *Position) {
	e.positions[p.ID()] = p
	e.ids = append(e.ids, p.ID())
}

// Snapshots returns the state of every open position marked at the
// given prices, instruments missing from marks are marked at nothing.
func (e *Engine) Snapshots(marks map[string]*num.Uint) []types.PositionSnapshot {
	out := []types.PositionSnapshot{}
	for _, p := range e.OpenPositions("") {
		out = append(out, p.Snapshot(types.PositionEventChanged, marks[p.InstrumentID()]))
	}
	return out
}

// Hash of all positions, sorted by id.
func (e *Engine) Hash() []byte {
	ids := make([]string, len(e.ids))
	copy(ids, e.ids)
	sort.Strings(ids)
	buf := make([]byte, 0, len(ids)*32)
	for _, id := range ids {
		buf = append(buf, e.positions[id].Hash()...)
	}
	return crypto.Hash(buf)
}

// Reset drops every position, instruments are kept.
func (e *Engine) Reset() {
	e.positions = map[string]*Position{}
	e.ids = nil
	e.counter.Reset()
}
