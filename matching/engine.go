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
	"fmt"
	"time"

	"code.vegaprotocol.io/simex/idgeneration"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/orderbook"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

// ErrNoHandler signals the engine was built without an event handler.
var ErrNoHandler = errors.New("matching engine requires an event handler")

// Handler receives the order events in the order they are generated. The
// event is already applied to the order, o is nil when the event answers a
// command for an order the engine does not know.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/handler_mock.go -package mocks code.vegaprotocol.io/simex/matching Handler
type Handler interface {
	HandleOrderEvent(e *types.OrderEvent, o *types.Order)
}

// Positions gives the engine the positions the orders trade against.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/positions_mock.go -package mocks code.vegaprotocol.io/simex/matching Positions
type Positions interface {
	// PositionIDFor returns the position the next fill of the order is
	// booked against.
	PositionIDFor(o *types.Order) string
	// PositionSize returns the side and quantity of the position the order
	// trades against, flat when there is none.
	PositionSize(o *types.Order) (types.PositionSide, uint64)
}

// FeeModel computes the commission of a fill.
type FeeModel interface {
	CalculateCommission(o *types.Order, qty uint64, px *num.Uint, liq types.LiquiditySide, inst *types.Instrument) (types.Money, error)
}

// Engine matches the orders of a single instrument against the simulated
// liquidity of its book.
type Engine struct {
	log *logging.Logger
	Config

	inst     *types.Instrument
	bookType types.BookType
	book     *orderbook.OrderBook
	core     *Core
	status   types.MarketStatus

	fillModel models.Fill
	fees      FeeModel
	positions Positions
	handler   Handler

	expiring *ExpiringOrders
	filled   *FillCache

	venueOrderIDs *idgeneration.Counter
	tradeIDs      *idgeneration.IDGenerator
	eventIDs      *idgeneration.IDGenerator

	// prices the core is moved back to once the orders were iterated
	targetBid  *num.Uint
	targetAsk  *num.Uint
	targetLast *num.Uint

	lastBarBid        *types.Bar
	lastBarAsk        *types.Bar
	executionBarType  *types.BarType
	executionBarDelta time.Duration

	now int64
}

// New builds the matching engine of an instrument, the configuration and
// the instrument are validated.
func New(
	log *logging.Logger,
	cfg Config,
	inst *types.Instrument,
	fillModel models.Fill,
	fees FeeModel,
	positions Positions,
	handler Handler,
) (*Engine, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	bookType, err := types.BookTypeFromString(cfg.BookType)
	if err != nil {
		return nil, errors.Wrapf(err, "book type %q", cfg.BookType)
	}
	if handler == nil {
		return nil, ErrNoHandler
	}

	log = log.Named(namedLogger).With(logging.InstrumentID(inst.ID))
	log.SetLevel(cfg.Level.Get())

	e := &Engine{
		log:       log,
		Config:    cfg,
		inst:      inst,
		bookType:  bookType,
		book:      orderbook.New(inst.ID, bookType),
		core:      NewCore(inst.ID),
		status:    types.MarketStatusOpen,
		fillModel: fillModel,
		fees:      fees,
		positions: positions,
		handler:   handler,
		expiring:  NewExpiringOrders(),
		filled:    NewFillCache(),
	}
	e.resetIDs()
	return e, nil
}

func (e *Engine) resetIDs() {
	e.venueOrderIDs = idgeneration.NewCounter(e.inst.ID)
	e.tradeIDs = idgeneration.NewFromSeed(e.inst.ID)
	e.eventIDs = idgeneration.NewFromSeed("events/" + e.inst.ID)
}

// ReloadConf update the internal configuration of the engine, the book
// type only applies to new engines.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	cfg.BookType = e.Config.BookType
	e.Config = cfg
}

// Reset clears the book, the resting orders and the id sequences.
func (e *Engine) Reset() {
	e.book.Clear()
	e.core.Reset()
	e.expiring.Reset()
	e.filled.Reset()
	e.targetBid, e.targetAsk, e.targetLast = nil, nil, nil
	e.lastBarBid, e.lastBarAsk = nil, nil
	e.executionBarType = nil
	e.executionBarDelta = 0
	e.status = types.MarketStatusOpen
	e.resetIDs()
	e.log.Info("reset")
}

func (e *Engine) Instrument() *types.Instrument    { return e.inst }
func (e *Engine) Book() *orderbook.OrderBook       { return e.book }
func (e *Engine) Core() *Core                      { return e.core }
func (e *Engine) MarketStatus() types.MarketStatus { return e.status }
func (e *Engine) BestBidPrice() *num.Uint          { return e.book.BestBidPrice() }
func (e *Engine) BestAskPrice() *num.Uint          { return e.book.BestAskPrice() }

// SetTime moves the engine clock, commands are stamped with it.
func (e *Engine) SetTime(ts int64) {
	e.now = ts
}

func (e *Engine) Now() int64 {
	return e.now
}

// OpenOrders returns the resting orders, bids first.
func (e *Engine) OpenOrders() []*types.Order {
	return e.core.Orders()
}

func (e *Engine) OrderExists(clientOrderID string) bool {
	return e.core.OrderExists(clientOrderID)
}

// ProcessOrderBookDelta applies the delta to an L2 book and iterates.
func (e *Engine) ProcessOrderBookDelta(d *types.BookDelta) error {
	if e.bookType == types.BookTypeL2 {
		if err := e.book.ApplyDelta(d); err != nil {
			return err
		}
	}
	e.iterate(d.TsEvent)
	return nil
}

func (e *Engine) ProcessOrderBookDeltas(ds *types.BookDeltas) error {
	if e.bookType == types.BookTypeL2 {
		if err := e.book.ApplyDeltas(ds); err != nil {
			return err
		}
	}
	e.iterate(ds.TsEvent)
	return nil
}

// ProcessQuoteTick updates an L1 book and iterates.
func (e *Engine) ProcessQuoteTick(q *types.QuoteTick) error {
	if e.bookType == types.BookTypeL1 {
		if err := e.book.UpdateQuoteTick(q); err != nil {
			return err
		}
	}
	e.iterate(q.TsEvent)
	return nil
}

// ProcessTradeTick updates an L1 book, records the last price and
// iterates.
func (e *Engine) ProcessTradeTick(t *types.TradeTick) error {
	if e.bookType == types.BookTypeL1 {
		if err := e.book.UpdateTradeTick(t); err != nil {
			return err
		}
	}
	e.core.SetLast(t.Price)
	e.iterate(t.TsEvent)
	return nil
}

// ProcessStatus moves the market status for the action and returns the
// new status.
func (e *Engine) ProcessStatus(action types.MarketStatusAction) types.MarketStatus {
	prev := e.status
	switch e.status {
	case types.MarketStatusClosed:
		if action == types.MarketStatusActionTrading || action == types.MarketStatusActionPreOpen {
			e.status = types.MarketStatusOpen
		}
	case types.MarketStatusPaused, types.MarketStatusSuspended:
		switch action {
		case types.MarketStatusActionTrading:
			e.status = types.MarketStatusOpen
		case types.MarketStatusActionHalt, types.MarketStatusActionClose:
			e.status = types.MarketStatusClosed
		}
	case types.MarketStatusOpen:
		switch action {
		case types.MarketStatusActionPause:
			e.status = types.MarketStatusPaused
		case types.MarketStatusActionSuspend:
			e.status = types.MarketStatusSuspended
		case types.MarketStatusActionHalt, types.MarketStatusActionClose:
			e.status = types.MarketStatusClosed
		}
	}
	if prev != e.status {
		e.log.Info("market status changed",
			logging.String("action", action.String()),
			logging.String("from", prev.String()),
			logging.String("to", e.status.String()))
	}
	return e.status
}

// Iterate expires, triggers and fills the resting orders against the
// current book at ts.
func (e *Engine) Iterate(ts int64) {
	e.iterate(ts)
}

func (e *Engine) iterate(ts int64) {
	e.now = ts
	if p := e.book.BestBidPrice(); p != nil {
		e.core.SetBid(p)
	}
	if p := e.book.BestAskPrice(); p != nil {
		e.core.SetAsk(p)
	}

	if e.SupportGTDOrders.Get() {
		e.expireOrders(ts)
	}

	for _, o := range e.core.BidOrders() {
		e.matchOrder(o)
	}
	for _, o := range e.core.AskOrders() {
		e.matchOrder(o)
	}

	// move the market back to the book
	if e.targetBid != nil {
		e.core.SetBid(e.targetBid)
	}
	if e.targetAsk != nil {
		e.core.SetAsk(e.targetAsk)
	}
	if e.targetLast != nil {
		e.core.SetLast(e.targetLast)
	}
	e.targetBid, e.targetAsk, e.targetLast = nil, nil, nil
}

// ExpireOrders expires the GTD orders due at ts without touching the rest
// of the book.
func (e *Engine) ExpireOrders(ts int64) {
	e.now = ts
	if e.SupportGTDOrders.Get() {
		e.expireOrders(ts)
	}
}

func (e *Engine) expireOrders(ts int64) {
	for _, id := range e.expiring.Expire(ts) {
		o, ok := e.core.Order(id)
		if !ok || o.IsClosed() {
			continue
		}
		e.core.DeleteOrder(o)
		e.filled.Invalidate(id)
		e.emit(o, e.newEvent(o, types.OrderEventExpired))
	}
}

// matchOrder runs one resting order against the core prices.
func (e *Engine) matchOrder(o *types.Order) {
	if o.IsClosed() {
		return
	}
	switch o.Type {
	case types.OrderTypeLimit, types.OrderTypeMarketToLimit:
		if e.core.IsLimitMatched(o.Side, o.Price) {
			e.fillLimitOrder(o, types.LiquiditySideMaker)
		}
	case types.OrderTypeMarket:
		// exhausted top of book on a previous update
		e.fillMarketOrder(o)
	case types.OrderTypeStopMarket:
		if o.FilledQty > 0 || e.core.IsStopMatched(o.Side, o.TriggerPrice) {
			e.fillMarketOrder(o)
		}
	case types.OrderTypeMarketIfTouched:
		if o.FilledQty > 0 || e.core.IsTouchTriggered(o.Side, o.TriggerPrice) {
			e.fillMarketOrder(o)
		}
	case types.OrderTypeStopLimit, types.OrderTypeLimitIfTouched:
		if o.IsTriggered {
			if e.core.IsLimitMatched(o.Side, o.Price) {
				e.fillLimitOrder(o, types.LiquiditySideMaker)
			}
			return
		}
		if e.isTriggered(o) {
			e.emit(o, e.newEvent(o, types.OrderEventTriggered))
			if e.core.IsLimitMatched(o.Side, o.Price) {
				e.fillLimitOrder(o, types.LiquiditySideMaker)
			}
		}
	}
}

// isTriggered applies the stop predicate to stops and the touch predicate
// to if-touched orders.
func (e *Engine) isTriggered(o *types.Order) bool {
	if o.Type.IsIfTouched() {
		return e.core.IsTouchTriggered(o.Side, o.TriggerPrice)
	}
	return e.core.IsStopMatched(o.Side, o.TriggerPrice)
}

func (e *Engine) newEvent(o *types.Order, t types.OrderEventType) *types.OrderEvent {
	return &types.OrderEvent{
		Type:          t,
		EventID:       e.eventIDs.NextID(),
		TraderID:      o.TraderID,
		StrategyID:    o.StrategyID,
		AccountID:     o.AccountID,
		InstrumentID:  o.InstrumentID,
		ClientOrderID: o.ClientOrderID,
		VenueOrderID:  o.VenueOrderID,
		TsEvent:       e.now,
		TsInit:        e.now,
	}
}

// emit applies the event to the order then hands it to the handler. Events
// answering commands for closed or unknown orders are not applied. It
// returns false when the order refused the event.
func (e *Engine) emit(o *types.Order, evt *types.OrderEvent) bool {
	if o != nil && !o.IsClosed() {
		if err := o.Apply(evt); err != nil {
			e.log.Error("unable to apply order event",
				logging.OrderEvent(evt),
				logging.Order(o),
				logging.Error(err))
			return false
		}
	}
	e.handler.HandleOrderEvent(evt, o)
	return true
}

func (e *Engine) reject(o *types.Order, reason string, dueToPostOnly bool) {
	e.log.Debug("order rejected", logging.OrderID(o.ClientOrderID), logging.String("reason", reason))
	evt := e.newEvent(o, types.OrderEventRejected)
	evt.Reason = reason
	evt.DueToPostOnly = dueToPostOnly
	e.emit(o, evt)
}

// accept rests the order in the core, OrderAccepted is only generated the
// first time.
func (e *Engine) accept(o *types.Order) {
	if o.IsClosed() {
		return
	}
	if len(o.VenueOrderID) == 0 && o.FilledQty == 0 {
		evt := e.newEvent(o, types.OrderEventAccepted)
		evt.VenueOrderID = e.venueOrderIDs.Next()
		e.emit(o, evt)
	}
	e.core.AddOrder(o)
	if o.TimeInForce == types.TimeInForceGTD && e.SupportGTDOrders.Get() {
		e.expiring.Insert(o.ClientOrderID, o.ExpireTime)
	}
}

// remove takes a closed order out of the indexes.
func (e *Engine) remove(o *types.Order) {
	e.core.DeleteOrder(o)
	e.filled.Invalidate(o.ClientOrderID)
	if o.TimeInForce == types.TimeInForceGTD {
		e.expiring.RemoveOrder(o.ExpireTime, o.ClientOrderID)
	}
}

func (e *Engine) cancelOrder(o *types.Order) {
	e.remove(o)
	e.emit(o, e.newEvent(o, types.OrderEventCanceled))
}

func (e *Engine) marketString() string {
	return fmt.Sprintf("bid=%s, ask=%s", priceString(e.core.Bid()), priceString(e.core.Ask()))
}

func priceString(p *num.Uint) string {
	if p == nil {
		return "None"
	}
	return p.String()
}
