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

package accounts

import (
	"context"
	"strings"

	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var (
	ErrInvalidStartingBalance = errors.New("invalid starting balance")
	ErrInvalidLeverage        = errors.New("leverage must be positive")
	ErrInsufficientBalance    = errors.New("insufficient free balance")
	ErrNegativeBalance        = errors.New("adjustment would make the balance negative")
	ErrNotAFill               = errors.New("event is not a fill")
)

// Broker (no longer need to mock this, use the broker/mocks wrapper).
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// OpenPosition is the part of a position the margin computation needs.
type OpenPosition interface {
	Quantity() uint64
	AvgPxOpen() num.Decimal
}

// Engine maintains the venue account of the trader: fills move the
// balances, open orders and positions lock funds.
type Engine struct {
	log *logging.Logger
	Config

	broker   Broker
	traderID string
	model    MarginModel
	acc      *Account
}

// New builds the account from the configuration, any malformed value is
// an error.
func New(log *logging.Logger, cfg Config, broker Broker, traderID, accountID string) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	t, err := types.AccountTypeFromString(cfg.AccountType)
	if err != nil {
		return nil, err
	}
	model, err := NewMarginModel(cfg.MarginModel)
	if err != nil {
		return nil, err
	}
	starting, err := ParseBalances(cfg.StartingBalances)
	if err != nil {
		return nil, err
	}
	for _, m := range starting {
		if len(cfg.BaseCurrency) > 0 && m.Currency != cfg.BaseCurrency {
			return nil, errors.Wrapf(ErrInvalidStartingBalance, "%s on a %s single currency account", m.Currency, cfg.BaseCurrency)
		}
	}

	acc := newAccount(accountID, t, cfg.BaseCurrency, starting, cfg.Frozen.Get())
	if def := cfg.DefaultLeverage.Get(); !def.IsZero() {
		if !def.IsPositive() {
			return nil, ErrInvalidLeverage
		}
		acc.defaultLeverage = def
	}
	for id, s := range cfg.Leverages {
		l, err := num.DecimalFromString(s)
		if err != nil || !l.IsPositive() {
			return nil, errors.Wrapf(ErrInvalidLeverage, "%s: %q", id, s)
		}
		acc.SetLeverage(id, l)
	}

	return &Engine{
		log:      log,
		Config:   cfg,
		broker:   broker,
		traderID: traderID,
		model:    model,
		acc:      acc,
	}, nil
}

// ParseBalances parses "<amount> <currency>" pairs.
func ParseBalances(in []string) ([]types.Money, error) {
	out := make([]types.Money, 0, len(in))
	for _, s := range in {
		parts := strings.Fields(s)
		if len(parts) != 2 {
			return nil, errors.Wrapf(ErrInvalidStartingBalance, "%q", s)
		}
		amount, err := num.DecimalFromString(parts[0])
		if err != nil || amount.IsNegative() {
			return nil, errors.Wrapf(ErrInvalidStartingBalance, "%q", s)
		}
		out = append(out, types.NewMoney(amount, parts[1]))
	}
	return out, nil
}

// ReloadConf update the internal configuration of the engine, balances and
// leverages are only read at construction.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.Config = cfg
}

func (e *Engine) Account() *Account {
	return e.acc
}

func (e *Engine) publish(ctx context.Context, ts int64) {
	e.broker.Send(events.NewAccountEvent(ctx, e.traderID, e.acc.State(ts)))
}

// lockPrice is the price funds are reserved at, the limit price first,
// the trigger price of stop market orders, else the reference price.
func lockPrice(o *types.Order, ref *num.Uint) *num.Uint {
	if o.Price != nil {
		return o.Price
	}
	if o.TriggerPrice != nil {
		return o.TriggerPrice
	}
	return ref
}

func spotBase(inst *types.Instrument) bool {
	return len(inst.BaseCurrency) > 0 && !inst.IsInverse
}

// PreTradeCheck verifies the free balance covers the order. Orders that
// only reduce the current position are not checked on margin accounts,
// and nothing is checked on frozen accounts.
func (e *Engine) PreTradeCheck(o *types.Order, inst *types.Instrument, ref *num.Uint, posSide types.PositionSide, posQty uint64) error {
	if e.acc.frozen {
		return nil
	}
	px := lockPrice(o, ref)
	if px == nil {
		// no market, the matching engine answers this one
		return nil
	}
	ccy := inst.CostCurrency()

	var required num.Decimal
	switch {
	case e.acc.IsMargin():
		if o.WouldReduceOnly(posSide, posQty) {
			return nil
		}
		required = e.model.InitialMargin(inst, o.LeavesQty(), px, e.acc.Leverage(inst.ID))
	case o.IsSell() && spotBase(inst):
		ccy = inst.BaseCurrency
		required = inst.QuantityToDecimal(o.LeavesQty())
	default:
		required = inst.NotionalValue(o.LeavesQty(), px)
	}

	if free := e.acc.Free(ccy); free.LessThan(required) {
		return errors.Wrapf(ErrInsufficientBalance, "free %s %s, required %s %s", free, ccy, required, ccy)
	}
	return nil
}

// UpdateMargins recomputes the funds locked for the instrument from its
// open orders and open positions, marked at mark when given.
func (e *Engine) UpdateMargins(ctx context.Context, inst *types.Instrument, orders []*types.Order, positions []OpenPosition, mark *num.Uint, ts int64) {
	if e.acc.frozen {
		return
	}
	ccy := inst.CostCurrency()
	lev := e.acc.Leverage(inst.ID)
	locks := map[string]num.Decimal{}
	initial, maint := num.DecimalZero(), num.DecimalZero()

	for _, o := range orders {
		if !o.IsOpen() {
			continue
		}
		px := lockPrice(o, mark)
		if px == nil {
			continue
		}
		switch {
		case e.acc.IsMargin():
			initial = initial.Add(e.model.InitialMargin(inst, o.LeavesQty(), px, lev))
		case o.IsSell() && spotBase(inst):
			locks[inst.BaseCurrency] = locks[inst.BaseCurrency].Add(inst.QuantityToDecimal(o.LeavesQty()))
		default:
			locks[ccy] = locks[ccy].Add(inst.NotionalValue(o.LeavesQty(), px))
		}
	}

	if e.acc.IsMargin() {
		for _, p := range positions {
			if p.Quantity() == 0 {
				continue
			}
			px := mark
			if px == nil {
				var err error
				px, err = inst.PriceFromDecimal(p.AvgPxOpen().Round(int32(inst.PricePrecision)))
				if err != nil {
					e.log.Warn("unable to mark position for margin", logging.InstrumentID(inst.ID), logging.Error(err))
					continue
				}
			}
			maint = maint.Add(e.model.MaintenanceMargin(inst, p.Quantity(), px, lev))
		}
		locks[ccy] = initial.Add(maint)
		e.acc.margins[inst.ID] = types.MarginBalance{
			InstrumentID: inst.ID,
			Currency:     ccy,
			Initial:      initial,
			Maintenance:  maint,
		}
	}

	if sameLocks(e.acc.lockedByInstrument(inst.ID), locks) {
		return
	}
	e.acc.locks[inst.ID] = locks
	for c := range locks {
		total := e.acc.Total(c)
		var sum num.Decimal
		for _, l := range e.acc.locks {
			sum = sum.Add(l[c])
		}
		if sum.GreaterThan(total) {
			e.log.Warn("locked funds exceed the balance",
				logging.String("currency", c),
				logging.Decimal("locked", sum),
				logging.Decimal("total", total))
		}
	}
	e.publish(ctx, ts)
}

func sameLocks(a, b map[string]num.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || !w.Equal(v) {
			return false
		}
	}
	return true
}

// ApplyFill moves the balances for a fill. realized is the trading P&L of
// the part of the fill closing a position, commission excluded.
func (e *Engine) ApplyFill(ctx context.Context, inst *types.Instrument, evt *types.OrderEvent, realized num.Decimal) error {
	f := evt.Fill
	if f == nil {
		return ErrNotAFill
	}
	if e.acc.frozen {
		e.log.Debug("frozen account, fill not applied to balances", logging.OrderID(evt.ClientOrderID))
		return nil
	}

	if e.acc.IsMargin() {
		e.acc.add(types.NewMoney(realized, inst.CostCurrency()))
	} else {
		notional := inst.NotionalValue(f.LastQty, f.LastPx)
		qty := inst.QuantityToDecimal(f.LastQty)
		ccy := inst.CostCurrency()
		if f.Side == types.SideBuy {
			e.acc.add(types.NewMoney(notional.Neg(), ccy))
			if spotBase(inst) {
				e.acc.add(types.NewMoney(qty, inst.BaseCurrency))
			}
		} else {
			e.acc.add(types.NewMoney(notional, ccy))
			if spotBase(inst) {
				e.acc.add(types.NewMoney(qty.Neg(), inst.BaseCurrency))
			}
		}
	}
	if len(f.Commission.Currency) > 0 && !f.Commission.IsZero() {
		e.acc.add(f.Commission.Neg())
	}

	e.log.Debug("fill applied to account",
		logging.OrderID(evt.ClientOrderID),
		logging.Decimal("realized", realized),
		logging.String("commission", f.Commission.String()))
	e.publish(ctx, evt.TsEvent)
	return nil
}

// Adjust records a manual adjustment, frozen accounts only record it.
func (e *Engine) Adjust(ctx context.Context, m types.Money, ts int64) error {
	e.acc.adjustments = append(e.acc.adjustments, m)
	if e.acc.frozen {
		e.log.Info("adjustment recorded on frozen account", logging.String("amount", m.String()))
		return nil
	}
	if e.acc.Total(m.Currency).Add(m.Amount).IsNegative() {
		e.acc.adjustments = e.acc.adjustments[:len(e.acc.adjustments)-1]
		return errors.Wrapf(ErrNegativeBalance, "%s", m)
	}
	e.acc.add(m)
	e.publish(ctx, ts)
	return nil
}

// Reset restores the starting balances.
func (e *Engine) Reset(ctx context.Context, ts int64) {
	e.acc.reset()
	e.publish(ctx, ts)
}
