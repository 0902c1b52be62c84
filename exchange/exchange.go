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
	"context"
	"sync"

	"code.vegaprotocol.io/simex/accounts"
	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/idgeneration"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/metrics"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/positions"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var (
	ErrUnknownInstrument   = errors.New("unknown instrument")
	ErrDuplicateInstrument = errors.New("instrument already added")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMissingOrder        = errors.New("submit command without an order")
	ErrNoLatencyModel      = errors.New("latency simulation requires a latency model")
	ErrMissingCollaborator = errors.New("exchange requires a broker, a positions engine and an account")
)

// Broker (no longer need to mock this, use the broker/mocks wrapper).
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Positions is the part of the positions engine the venue drives.
type Positions interface {
	matching.Positions
	AddInstrument(inst *types.Instrument)
	FillPnL(evt *types.OrderEvent) num.Decimal
	ApplyFill(ctx context.Context, evt *types.OrderEvent, reduceOnly bool) ([]types.PositionSnapshot, error)
	Position(id string) (*positions.Position, error)
	Positions(instrumentID string) []*positions.Position
	OpenPositions(instrumentID string) []*positions.Position
	Reset()
}

// Accounts is the part of the account engine the venue drives.
type Accounts interface {
	Account() *accounts.Account
	PreTradeCheck(o *types.Order, inst *types.Instrument, ref *num.Uint, posSide types.PositionSide, posQty uint64) error
	UpdateMargins(ctx context.Context, inst *types.Instrument, orders []*types.Order, positions []accounts.OpenPosition, mark *num.Uint, ts int64)
	ApplyFill(ctx context.Context, inst *types.Instrument, evt *types.OrderEvent, realized num.Decimal) error
	Adjust(ctx context.Context, m types.Money, ts int64) error
	Reset(ctx context.Context, ts int64)
}

// Exchange is the simulated venue: it owns one matching engine per
// instrument, routes the trading commands to them through the latency
// queue and books the resulting fills on the positions and the account.
// It is safe for concurrent use, it has a single writer at a time and
// readers only ever get copies.
type Exchange struct {
	log *logging.Logger
	Config
	matchingCfg matching.Config

	broker    Broker
	positions Positions
	accounts  Accounts
	fees      matching.FeeModel
	fillModel models.Fill
	latency   *models.LatencyModel

	mu sync.RWMutex
	// context of the call being processed, handed to the event consumers
	ctx context.Context

	engines map[string]*matching.Engine
	// instrument ids in the order they were added
	instrumentIDs []string
	orders        map[string]*types.Order
	orderIDs      []string
	queue         *commandQueue
	eventIDs      *idgeneration.IDGenerator
	now           int64
}

// New builds a venue without instruments. latency may be nil when the
// latency simulation is disabled.
func New(
	log *logging.Logger,
	cfg Config,
	matchingCfg matching.Config,
	broker Broker,
	positions Positions,
	accounts Accounts,
	fees matching.FeeModel,
	fillModel models.Fill,
	latency *models.LatencyModel,
) (*Exchange, error) {
	if broker == nil || positions == nil || accounts == nil {
		return nil, ErrMissingCollaborator
	}
	if _, err := types.BookTypeFromString(matchingCfg.BookType); err != nil {
		return nil, errors.Wrapf(err, "book type %q", matchingCfg.BookType)
	}
	if cfg.SimulateLatency.Get() && latency == nil {
		return nil, ErrNoLatencyModel
	}
	if !cfg.SimulateLatency.Get() {
		latency = nil
	}

	log = log.Named(namedLogger).With(logging.String("venue", cfg.Venue))
	log.SetLevel(cfg.Level.Get())

	return &Exchange{
		log:         log,
		Config:      cfg,
		matchingCfg: matchingCfg,
		broker:      broker,
		positions:   positions,
		accounts:    accounts,
		fees:        fees,
		fillModel:   fillModel,
		latency:     latency,
		ctx:         context.Background(),
		engines:     map[string]*matching.Engine{},
		orders:      map[string]*types.Order{},
		queue:       newCommandQueue(),
		eventIDs:    idgeneration.NewFromSeed("exchange/" + cfg.Venue),
	}, nil
}

// ReloadConf update the internal configuration of the venue and of its
// matching engines.
func (e *Exchange) ReloadConf(cfg Config, matchingCfg matching.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	// queueing and latency are fixed once commands may be in flight
	cfg.UseMessageQueue = e.Config.UseMessageQueue
	cfg.SimulateLatency = e.Config.SimulateLatency
	e.Config = cfg

	e.matchingCfg = matchingCfg
	for _, id := range e.instrumentIDs {
		e.engines[id].ReloadConf(matchingCfg)
	}
}

// AddInstrument creates the matching engine of the instrument.
func (e *Exchange) AddInstrument(inst *types.Instrument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.engines[inst.ID]; ok {
		return errors.Wrap(ErrDuplicateInstrument, inst.ID)
	}
	me, err := matching.New(e.log, e.matchingCfg, inst, e.fillModel, e.fees, e.positions, e)
	if err != nil {
		return err
	}
	e.positions.AddInstrument(inst)
	e.engines[inst.ID] = me
	e.instrumentIDs = append(e.instrumentIDs, inst.ID)
	e.log.Info("instrument added", logging.InstrumentID(inst.ID))
	return nil
}

func (e *Exchange) engine(instrumentID string) (*matching.Engine, error) {
	me, ok := e.engines[instrumentID]
	if !ok {
		return nil, errors.Wrap(ErrUnknownInstrument, instrumentID)
	}
	return me, nil
}

// Send hands a trading command to the venue. Submitted orders go through
// the pre-trade checks first, the command is then processed now, at the
// next Process call, or once its latency elapsed. Only commands for
// unknown instruments or malformed commands return an error, everything
// else is answered with events.
func (e *Exchange) Send(ctx context.Context, cmd types.TradingCommand) error {
	defer metrics.ProcessTimer("Send")()

	e.mu.Lock()
	defer e.mu.Unlock()

	if cmd == nil {
		return types.ErrUnknownCommand
	}
	if c, ok := cmd.(*types.SubmitOrder); ok && c.Order == nil {
		return ErrMissingOrder
	}
	me, err := e.engine(cmd.GetInstrumentID())
	if err != nil {
		return err
	}
	e.ctx = ctx
	ts := cmd.GetTsInit()
	if ts > e.now {
		e.now = ts
	}
	metrics.CommandCounterInc(cmd.GetInstrumentID(), cmd.CommandType().String())
	if e.log.IsDebug() {
		e.log.Debug("command received", logging.Command(cmd))
	}

	switch c := cmd.(type) {
	case *types.SubmitOrder:
		if !e.submit(me, c, ts) {
			return nil
		}
	case *types.ModifyOrder:
		if o, ok := e.orders[c.ClientOrderID]; ok && !o.IsClosed() {
			e.pending(o, types.OrderEventPendingUpdate, ts)
		}
	case *types.CancelOrder:
		if !e.pendingCancel(c.ClientOrderID, ts) {
			return nil
		}
	case *types.CancelAllOrders:
	case *types.BatchCancelOrders:
		for _, cc := range c.Cancels {
			e.pendingCancel(cc.ClientOrderID, ts)
		}
	default:
		return errors.Wrapf(types.ErrUnknownCommand, "%T", cmd)
	}

	switch {
	case !e.UseMessageQueue.Get():
		e.processCommand(cmd, ts)
		e.afterUpdate(me, ts)
	case e.latency != nil:
		due := e.queue.schedule(cmd, e.latencyFor(cmd))
		e.log.Debug("command in flight",
			logging.String("command", cmd.CommandType().String()),
			logging.TsNano("due", due))
	default:
		e.queue.enqueue(cmd)
	}
	return nil
}

// submit runs the pre-trade checks, denied orders never reach the
// matching engine.
func (e *Exchange) submit(me *matching.Engine, c *types.SubmitOrder, ts int64) bool {
	o := c.Order
	if len(c.PositionID) > 0 && len(o.PositionID) == 0 {
		o.PositionID = c.PositionID
	}
	if reason := e.denyReason(me, o, ts); len(reason) > 0 {
		e.log.Debug("order denied", logging.OrderID(o.ClientOrderID), logging.String("reason", reason))
		evt := e.newEvent(o, types.OrderEventDenied, ts)
		evt.Reason = reason
		stored, dup := e.orders[o.ClientOrderID]
		switch {
		case dup && stored == o:
			// a resubmitted order keeps its state, the command is still answered
			e.HandleOrderEvent(evt, o)
			return false
		case !dup:
			e.store(o)
		}
		e.emit(o, evt)
		return false
	}
	e.store(o)
	evt := e.newEvent(o, types.OrderEventSubmitted, ts)
	evt.AccountID = e.accounts.Account().ID()
	return e.emit(o, evt)
}

// pendingCancel marks the order as pending cancel, a cancel of an order
// already pending cancel is dropped.
func (e *Exchange) pendingCancel(clientOrderID string, ts int64) bool {
	o, ok := e.orders[clientOrderID]
	if !ok || o.IsClosed() {
		return true
	}
	if o.Status == types.OrderStatusPendingCancel {
		e.log.Debug("order already pending cancel", logging.OrderID(clientOrderID))
		return false
	}
	e.pending(o, types.OrderEventPendingCancel, ts)
	return true
}

func (e *Exchange) pending(o *types.Order, t types.OrderEventType, ts int64) {
	e.emit(o, e.newEvent(o, t, ts))
}

func (e *Exchange) latencyFor(cmd types.TradingCommand) uint64 {
	switch cmd.CommandType() {
	case types.CommandTypeSubmitOrder:
		return e.latency.InsertLatency()
	case types.CommandTypeModifyOrder:
		return e.latency.UpdateLatency()
	default:
		return e.latency.DeleteLatency()
	}
}

func (e *Exchange) store(o *types.Order) {
	e.orders[o.ClientOrderID] = o
	e.orderIDs = append(e.orderIDs, o.ClientOrderID)
}

func (e *Exchange) newEvent(o *types.Order, t types.OrderEventType, ts int64) *types.OrderEvent {
	return &types.OrderEvent{
		Type:          t,
		EventID:       e.eventIDs.NextID(),
		TraderID:      o.TraderID,
		StrategyID:    o.StrategyID,
		AccountID:     o.AccountID,
		InstrumentID:  o.InstrumentID,
		ClientOrderID: o.ClientOrderID,
		VenueOrderID:  o.VenueOrderID,
		TsEvent:       ts,
		TsInit:        ts,
	}
}

func (e *Exchange) emit(o *types.Order, evt *types.OrderEvent) bool {
	if err := o.Apply(evt); err != nil {
		e.log.Error("unable to apply order event",
			logging.OrderEvent(evt),
			logging.Order(o),
			logging.Error(err))
		return false
	}
	e.HandleOrderEvent(evt, o)
	return true
}

// processCommand runs the command through its matching engine at ts.
func (e *Exchange) processCommand(cmd types.TradingCommand, ts int64) {
	me, ok := e.engines[cmd.GetInstrumentID()]
	if !ok {
		// the instrument was known when the command was sent
		e.log.Panic("no matching engine for command", logging.Command(cmd))
	}
	me.SetTime(ts)
	switch c := cmd.(type) {
	case *types.SubmitOrder:
		me.ProcessOrder(c.Order)
	case *types.ModifyOrder:
		me.ProcessModify(c)
	case *types.CancelOrder:
		me.ProcessCancel(c)
	case *types.CancelAllOrders:
		me.ProcessCancelAll(c)
	case *types.BatchCancelOrders:
		me.ProcessBatchCancel(c)
	}
}

// Process runs every command due at ts, in flight commands first then
// the queued ones, and expires the GTD orders due.
func (e *Exchange) Process(ctx context.Context, ts int64) {
	defer metrics.ProcessTimer("Process")()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.ctx = ctx
	if ts > e.now {
		e.now = ts
	}
	for {
		c, ok := e.queue.popDue(ts)
		if !ok {
			break
		}
		e.processCommand(c.cmd, c.due)
	}
	for {
		cmd, ok := e.queue.dequeue()
		if !ok {
			break
		}
		e.processCommand(cmd, ts)
	}
	for _, id := range e.instrumentIDs {
		me := e.engines[id]
		me.ExpireOrders(ts)
		e.afterUpdate(me, ts)
	}
}

// Pending is the number of commands waiting in the queues.
func (e *Exchange) Pending() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queue.Len()
}

// HandleOrderEvent publishes an order event generated by the venue, fills
// are booked on the positions then on the account, so subscribers see
// the order fill, the position update and the account state in that
// order.
func (e *Exchange) HandleOrderEvent(evt *types.OrderEvent, o *types.Order) {
	metrics.OrderEventCounterInc(evt.InstrumentID, evt.Type.String())
	e.broker.Send(events.NewOrderEvent(e.ctx, evt))

	if evt.Type != types.OrderEventFilled || evt.Fill == nil {
		return
	}
	metrics.FillCounterInc(evt.InstrumentID, evt.Fill.LiquiditySide.String())
	me, ok := e.engines[evt.InstrumentID]
	if !ok {
		e.log.Panic("fill for an unknown instrument", logging.OrderEvent(evt))
	}

	realized := e.positions.FillPnL(evt)
	reduceOnly := o != nil && o.ReduceOnly
	if _, err := e.positions.ApplyFill(e.ctx, evt, reduceOnly); err != nil {
		e.log.Error("unable to apply fill to positions",
			logging.OrderEvent(evt),
			logging.Error(err))
	}
	if err := e.accounts.ApplyFill(e.ctx, me.Instrument(), evt, realized); err != nil {
		e.log.Error("unable to apply fill to the account",
			logging.OrderEvent(evt),
			logging.Error(err))
	}
}

// afterUpdate locks the funds the open orders and positions of the
// instrument require.
func (e *Exchange) afterUpdate(me *matching.Engine, ts int64) {
	inst := me.Instrument()
	open := me.OpenOrders()
	ps := e.positions.OpenPositions(inst.ID)
	op := make([]accounts.OpenPosition, 0, len(ps))
	for _, p := range ps {
		op = append(op, p)
	}
	e.accounts.UpdateMargins(e.ctx, inst, open, op, markPrice(me), ts)
	metrics.OpenOrdersGaugeSet(len(open), inst.ID)
}

func markPrice(me *matching.Engine) *num.Uint {
	if me.Core().IsLastInitialized() {
		return me.Core().Last()
	}
	return nil
}

func (e *Exchange) ProcessQuoteTick(ctx context.Context, q *types.QuoteTick) error {
	return e.onMarketData(ctx, q.InstrumentID, q.TsEvent, func(me *matching.Engine) error {
		return me.ProcessQuoteTick(q)
	})
}

func (e *Exchange) ProcessTradeTick(ctx context.Context, t *types.TradeTick) error {
	return e.onMarketData(ctx, t.InstrumentID, t.TsEvent, func(me *matching.Engine) error {
		return me.ProcessTradeTick(t)
	})
}

func (e *Exchange) ProcessBar(ctx context.Context, b *types.Bar) error {
	return e.onMarketData(ctx, b.BarType.InstrumentID, b.TsEvent, func(me *matching.Engine) error {
		return me.ProcessBar(b)
	})
}

func (e *Exchange) ProcessOrderBookDelta(ctx context.Context, d *types.BookDelta) error {
	return e.onMarketData(ctx, d.InstrumentID, d.TsEvent, func(me *matching.Engine) error {
		return me.ProcessOrderBookDelta(d)
	})
}

func (e *Exchange) ProcessOrderBookDeltas(ctx context.Context, ds *types.BookDeltas) error {
	return e.onMarketData(ctx, ds.InstrumentID, ds.TsEvent, func(me *matching.Engine) error {
		return me.ProcessOrderBookDeltas(ds)
	})
}

func (e *Exchange) onMarketData(ctx context.Context, instrumentID string, ts int64, f func(*matching.Engine) error) error {
	defer metrics.ProcessTimer("MarketData")()

	e.mu.Lock()
	defer e.mu.Unlock()

	me, err := e.engine(instrumentID)
	if err != nil {
		return err
	}
	e.ctx = ctx
	if ts > e.now {
		e.now = ts
	}
	if err := f(me); err != nil {
		return err
	}
	e.afterUpdate(me, ts)
	return nil
}

// ProcessStatus applies a market status action to the instrument and
// publishes the resulting status.
func (e *Exchange) ProcessStatus(ctx context.Context, instrumentID string, action types.MarketStatusAction, ts int64) (types.MarketStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	me, err := e.engine(instrumentID)
	if err != nil {
		return types.MarketStatusClosed, err
	}
	status := me.ProcessStatus(action)
	e.broker.Send(events.NewMarketStatusEvent(ctx, instrumentID, ts, action, status))
	return status, nil
}

// Instruments returns the ids of the instruments traded on the venue.
func (e *Exchange) Instruments() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.instrumentIDs))
	copy(out, e.instrumentIDs)
	return out
}

func (e *Exchange) MarketStatus(instrumentID string) (types.MarketStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	me, err := e.engine(instrumentID)
	if err != nil {
		return types.MarketStatusClosed, err
	}
	return me.MarketStatus(), nil
}

// BestBidAsk returns the top of book of the instrument, nil for an empty
// side.
func (e *Exchange) BestBidAsk(instrumentID string) (*num.Uint, *num.Uint, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	me, err := e.engine(instrumentID)
	if err != nil {
		return nil, nil, err
	}
	return num.CloneOrNil(me.BestBidPrice()), num.CloneOrNil(me.BestAskPrice()), nil
}

// Order returns a copy of the order.
func (e *Exchange) Order(clientOrderID string) (*types.Order, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o, ok := e.orders[clientOrderID]
	if !ok {
		return nil, errors.Wrap(ErrOrderNotFound, clientOrderID)
	}
	return o.Clone(), nil
}

// Orders returns copies of the orders of the instrument in submission
// order, every order when instrumentID is empty.
func (e *Exchange) Orders(instrumentID string) []*types.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []*types.Order{}
	for _, id := range e.orderIDs {
		o := e.orders[id]
		if len(instrumentID) == 0 || o.InstrumentID == instrumentID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// OpenOrders returns copies of the orders resting in the instrument
// matching engine.
func (e *Exchange) OpenOrders(instrumentID string) ([]*types.Order, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	me, err := e.engine(instrumentID)
	if err != nil {
		return nil, err
	}
	open := me.OpenOrders()
	out := make([]*types.Order, 0, len(open))
	for _, o := range open {
		out = append(out, o.Clone())
	}
	return out, nil
}

// Position returns the state of a position marked at the last trade of
// its instrument.
func (e *Exchange) Position(id string) (types.PositionSnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.positions.Position(id)
	if err != nil {
		return types.PositionSnapshot{}, err
	}
	var mark *num.Uint
	if me, ok := e.engines[p.InstrumentID()]; ok {
		mark = markPrice(me)
	}
	return p.Snapshot(types.PositionEventChanged, mark), nil
}

// Positions returns the state of every position of the instrument.
func (e *Exchange) Positions(instrumentID string) []types.PositionSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ps := e.positions.Positions(instrumentID)
	out := make([]types.PositionSnapshot, 0, len(ps))
	for _, p := range ps {
		var mark *num.Uint
		if me, ok := e.engines[p.InstrumentID()]; ok {
			mark = markPrice(me)
		}
		out = append(out, p.Snapshot(types.PositionEventChanged, mark))
	}
	return out
}

// Account returns the current state of the venue account.
func (e *Exchange) Account() types.AccountState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts.Account().State(e.now)
}

// AdjustAccount applies a manual balance adjustment, frozen accounts only
// record it.
func (e *Exchange) AdjustAccount(ctx context.Context, m types.Money) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.Adjust(ctx, m, e.now)
}

// Reset drops the commands in flight, the orders and the positions, and
// restores the starting balances. Instruments are kept.
func (e *Exchange) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range e.instrumentIDs {
		e.engines[id].Reset()
	}
	e.queue.reset()
	e.orders = map[string]*types.Order{}
	e.orderIDs = nil
	e.positions.Reset()
	if r, ok := e.fillModel.(interface{ Reset() }); ok {
		r.Reset()
	}
	e.eventIDs = idgeneration.NewFromSeed("exchange/" + e.Venue)
	e.accounts.Reset(ctx, e.now)
	e.log.Info("exchange reset")
}
