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

package fee

import (
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var (
	ErrUnknownModel         = errors.New("unknown commission model")
	ErrNegativeCommission   = errors.New("commission cannot be negative")
	ErrInvalidLiquiditySide = errors.New("fill has no liquidity side")
)

// Model computes the commission of a single fill.
type Model interface {
	Commission(o *types.Order, fillQty uint64, fillPx *num.Uint, liq types.LiquiditySide, inst *types.Instrument) (types.Money, error)
}

// MakerTaker charges the instrument maker or taker rate on the fill
// notional. Inverse instruments are charged in the base currency.
type MakerTaker struct{}

func (MakerTaker) Commission(_ *types.Order, qty uint64, px *num.Uint, liq types.LiquiditySide, inst *types.Instrument) (types.Money, error) {
	var rate num.Decimal
	switch liq {
	case types.LiquiditySideMaker:
		rate = inst.MakerFee
	case types.LiquiditySideTaker:
		rate = inst.TakerFee
	default:
		return types.Money{}, ErrInvalidLiquiditySide
	}
	ccy := inst.QuoteCurrency
	if inst.IsInverse {
		ccy = inst.BaseCurrency
	}
	return types.NewMoney(inst.NotionalValue(qty, px).Mul(rate), ccy), nil
}

// Fixed charges the same amount on every fill, or only on the first one.
type Fixed struct {
	Amount     num.Decimal
	Currency   string
	ChargeOnce bool
}

func (f Fixed) Commission(o *types.Order, _ uint64, _ *num.Uint, _ types.LiquiditySide, inst *types.Instrument) (types.Money, error) {
	ccy := currencyOr(f.Currency, inst)
	if f.ChargeOnce && o.FilledQty > 0 {
		return types.ZeroMoney(ccy), nil
	}
	return types.NewMoney(f.Amount, ccy), nil
}

// PerContract charges an amount for each unit of filled quantity.
type PerContract struct {
	Amount   num.Decimal
	Currency string
}

func (p PerContract) Commission(_ *types.Order, qty uint64, _ *num.Uint, _ types.LiquiditySide, inst *types.Instrument) (types.Money, error) {
	return types.NewMoney(p.Amount.Mul(inst.QuantityToDecimal(qty)), currencyOr(p.Currency, inst)), nil
}

func currencyOr(ccy string, inst *types.Instrument) string {
	if len(ccy) > 0 {
		return ccy
	}
	return inst.QuoteCurrency
}

// NewModel builds the commission model named in the configuration.
func NewModel(cfg Config) (Model, error) {
	amount := cfg.Commission.Get()
	if amount.IsNegative() {
		return nil, ErrNegativeCommission
	}
	switch cfg.Model {
	case ModelMakerTaker, "":
		return MakerTaker{}, nil
	case ModelFixed:
		return Fixed{Amount: amount, Currency: cfg.Currency, ChargeOnce: cfg.ChargeOnce.Get()}, nil
	case ModelPerContract:
		return PerContract{Amount: amount, Currency: cfg.Currency}, nil
	}
	return nil, errors.Wrap(ErrUnknownModel, cfg.Model)
}

// Engine computes fill commissions with the configured model.
type Engine struct {
	log   *logging.Logger
	cfg   Config
	model Model
}

func New(log *logging.Logger, cfg Config) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		log:   log,
		cfg:   cfg,
		model: m,
	}, nil
}

// NewWithModel uses a caller provided model.
func NewWithModel(log *logging.Logger, cfg Config, m Model) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{log: log, cfg: cfg, model: m}
}

// ReloadConf is used in order to reload the internal configuration of
// the of the fee engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	m, err := NewModel(cfg)
	if err != nil {
		e.log.Error("invalid fee model, keeping the current one", logging.Error(err))
		return
	}
	e.model = m
	e.cfg = cfg
}

// CalculateCommission returns the commission of a fill of qty at px for
// the order, before the fill is applied to it.
func (e *Engine) CalculateCommission(o *types.Order, qty uint64, px *num.Uint, liq types.LiquiditySide, inst *types.Instrument) (types.Money, error) {
	c, err := e.model.Commission(o, qty, px, liq, inst)
	if err != nil {
		e.log.Error("unable to compute commission",
			logging.OrderID(o.ClientOrderID),
			logging.Error(err))
		return types.Money{}, err
	}
	if e.log.IsDebug() {
		e.log.Debug("commission",
			logging.OrderID(o.ClientOrderID),
			logging.Uint64("qty", qty),
			logging.BigUint("px", px),
			logging.String("commission", c.String()))
	}
	return c, nil
}
