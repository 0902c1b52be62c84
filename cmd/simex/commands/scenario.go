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

package commands

import (
	"os"
	"time"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var (
	ErrNoStepAction         = errors.New("step has no action")
	ErrManyStepActions      = errors.New("step has more than one action")
	ErrStepBackInTime       = errors.New("step is before the previous one")
	ErrUnknownInstrument    = errors.New("unknown instrument")
	ErrInvalidAggressor     = errors.New("invalid aggressor side")
	ErrInvalidBookAction    = errors.New("invalid book action")
	ErrNoScenarioInstrument = errors.New("scenario has no instrument")
)

// Scenario is a replay file: the instruments traded then the market data
// and trading commands, in time order.
type Scenario struct {
	// Start is the wall clock time of the first step, zero timestamps are
	// used when missing.
	Start       time.Time        `yaml:"start"`
	StrategyID  string           `yaml:"strategy_id"`
	Instruments []InstrumentSpec `yaml:"instruments"`
	Steps       []Step           `yaml:"steps"`
}

type InstrumentSpec struct {
	ID                 string `yaml:"id"`
	BaseCurrency       string `yaml:"base_currency"`
	QuoteCurrency      string `yaml:"quote_currency"`
	SettlementCurrency string `yaml:"settlement_currency"`
	IsInverse          bool   `yaml:"is_inverse"`
	PricePrecision     uint8  `yaml:"price_precision"`
	SizePrecision      uint8  `yaml:"size_precision"`
	PriceIncrement     string `yaml:"price_increment"`
	SizeIncrement      string `yaml:"size_increment"`
	MinQuantity        string `yaml:"min_quantity"`
	MaxQuantity        string `yaml:"max_quantity"`
	Multiplier         string `yaml:"multiplier"`
	MarginInit         string `yaml:"margin_init"`
	MarginMaint        string `yaml:"margin_maint"`
	MakerFee           string `yaml:"maker_fee"`
	TakerFee           string `yaml:"taker_fee"`
	AllowQuoteQuantity bool   `yaml:"allow_quote_quantity"`
}

// Step is one line of the replay, exactly one action is set. At is the
// offset from the scenario start.
type Step struct {
	At time.Duration `yaml:"at"`

	Quote       *QuoteStep       `yaml:"quote"`
	Trade       *TradeStep       `yaml:"trade"`
	Bar         *BarStep         `yaml:"bar"`
	Deltas      *DeltasStep      `yaml:"deltas"`
	Status      *StatusStep      `yaml:"status"`
	Submit      *SubmitStep      `yaml:"submit"`
	Modify      *ModifyStep      `yaml:"modify"`
	Cancel      *CancelStep      `yaml:"cancel"`
	CancelAll   *CancelAllStep   `yaml:"cancel_all"`
	BatchCancel *BatchCancelStep `yaml:"batch_cancel"`
	Adjust      *AdjustStep      `yaml:"adjust"`
	// Process only advances the venue clock.
	Process bool `yaml:"process"`
}

type QuoteStep struct {
	Instrument string `yaml:"instrument"`
	Bid        string `yaml:"bid"`
	Ask        string `yaml:"ask"`
	BidSize    string `yaml:"bid_size"`
	AskSize    string `yaml:"ask_size"`
}

type TradeStep struct {
	Instrument string `yaml:"instrument"`
	Price      string `yaml:"price"`
	Size       string `yaml:"size"`
	Aggressor  string `yaml:"aggressor"`
	TradeID    string `yaml:"trade_id"`
}

type BarStep struct {
	Instrument  string `yaml:"instrument"`
	Step        uint64 `yaml:"step"`
	Aggregation string `yaml:"aggregation"`
	PriceType   string `yaml:"price_type"`
	Open        string `yaml:"open"`
	High        string `yaml:"high"`
	Low         string `yaml:"low"`
	Close       string `yaml:"close"`
	Volume      string `yaml:"volume"`
}

type DeltasStep struct {
	Instrument string      `yaml:"instrument"`
	Deltas     []DeltaSpec `yaml:"deltas"`
}

type DeltaSpec struct {
	Action string `yaml:"action"`
	Side   string `yaml:"side"`
	Price  string `yaml:"price"`
	Size   string `yaml:"size"`
}

type StatusStep struct {
	Instrument string `yaml:"instrument"`
	Action     string `yaml:"action"`
}

type SubmitStep struct {
	ID           string `yaml:"id"`
	Instrument   string `yaml:"instrument"`
	Side         string `yaml:"side"`
	Type         string `yaml:"type"`
	Quantity     string `yaml:"quantity"`
	Price        string `yaml:"price"`
	TriggerPrice string `yaml:"trigger_price"`
	TimeInForce  string `yaml:"tif"`
	// ExpireAfter is relative to the step time, GTD orders only.
	ExpireAfter   time.Duration `yaml:"expire_after"`
	PostOnly      bool          `yaml:"post_only"`
	ReduceOnly    bool          `yaml:"reduce_only"`
	QuoteQuantity bool          `yaml:"quote_quantity"`
	PositionID    string        `yaml:"position_id"`
}

type ModifyStep struct {
	ID           string `yaml:"id"`
	Instrument   string `yaml:"instrument"`
	Quantity     string `yaml:"quantity"`
	Price        string `yaml:"price"`
	TriggerPrice string `yaml:"trigger_price"`
}

type CancelStep struct {
	ID         string `yaml:"id"`
	Instrument string `yaml:"instrument"`
}

type CancelAllStep struct {
	Instrument string `yaml:"instrument"`
	Side       string `yaml:"side"`
}

type BatchCancelStep struct {
	Instrument string   `yaml:"instrument"`
	IDs        []string `yaml:"ids"`
}

type AdjustStep struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// ReadScenario loads and validates a YAML scenario.
func ReadScenario(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(buf)
}

func ParseScenario(buf []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.UnmarshalStrict(buf, sc); err != nil {
		return nil, err
	}
	if len(sc.Instruments) == 0 {
		return nil, ErrNoScenarioInstrument
	}
	if len(sc.StrategyID) == 0 {
		sc.StrategyID = "S-001"
	}
	var last time.Duration
	for i, s := range sc.Steps {
		if n := s.actions(); n == 0 {
			return nil, errors.Wrapf(ErrNoStepAction, "step %d", i)
		} else if n > 1 {
			return nil, errors.Wrapf(ErrManyStepActions, "step %d", i)
		}
		if s.At < last {
			return nil, errors.Wrapf(ErrStepBackInTime, "step %d at %s", i, s.At)
		}
		last = s.At
	}
	return sc, nil
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Quote != nil, s.Trade != nil, s.Bar != nil, s.Deltas != nil,
		s.Status != nil, s.Submit != nil, s.Modify != nil, s.Cancel != nil,
		s.CancelAll != nil, s.BatchCancel != nil, s.Adjust != nil, s.Process,
	} {
		if set {
			n++
		}
	}
	return n
}

// Instrument converts the human readable reference data.
func (s InstrumentSpec) Instrument() (*types.Instrument, error) {
	inst := &types.Instrument{
		ID:                 s.ID,
		BaseCurrency:       s.BaseCurrency,
		QuoteCurrency:      s.QuoteCurrency,
		SettlementCurrency: s.SettlementCurrency,
		IsInverse:          s.IsInverse,
		PricePrecision:     s.PricePrecision,
		SizePrecision:      s.SizePrecision,
		AllowQuoteQuantity: s.AllowQuoteQuantity,
	}
	var err error
	d := decimals{}
	if inst.PriceIncrement, err = optPrice(inst, s.PriceIncrement); err != nil {
		return nil, errors.Wrap(err, "price_increment")
	}
	if inst.PriceIncrement == nil {
		inst.PriceIncrement = num.NewUint(1)
	}
	if inst.SizeIncrement, err = quantity(inst, s.SizeIncrement); err != nil {
		return nil, errors.Wrap(err, "size_increment")
	}
	if inst.SizeIncrement == 0 {
		inst.SizeIncrement = 1
	}
	if inst.MinQuantity, err = quantity(inst, s.MinQuantity); err != nil {
		return nil, errors.Wrap(err, "min_quantity")
	}
	if inst.MaxQuantity, err = quantity(inst, s.MaxQuantity); err != nil {
		return nil, errors.Wrap(err, "max_quantity")
	}
	inst.Multiplier = d.parse("multiplier", s.Multiplier, num.DecimalOne())
	inst.MarginInit = d.parse("margin_init", s.MarginInit, num.DecimalZero())
	inst.MarginMaint = d.parse("margin_maint", s.MarginMaint, num.DecimalZero())
	inst.MakerFee = d.parse("maker_fee", s.MakerFee, num.DecimalZero())
	inst.TakerFee = d.parse("taker_fee", s.TakerFee, num.DecimalZero())
	if d.err != nil {
		return nil, d.err
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// decimals keeps the first parsing error.
type decimals struct {
	err error
}

func (d *decimals) parse(field, s string, def num.Decimal) num.Decimal {
	if len(s) == 0 || d.err != nil {
		return def
	}
	v, err := num.DecimalFromString(s)
	if err != nil {
		d.err = errors.Wrap(err, field)
		return def
	}
	return v
}

func price(inst *types.Instrument, s string) (*num.Uint, error) {
	d, err := num.DecimalFromString(s)
	if err != nil {
		return nil, err
	}
	return inst.PriceFromDecimal(d)
}

// optPrice returns nil for an empty string.
func optPrice(inst *types.Instrument, s string) (*num.Uint, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return price(inst, s)
}

// quantity returns 0 for an empty string.
func quantity(inst *types.Instrument, s string) (uint64, error) {
	if len(s) == 0 {
		return 0, nil
	}
	d, err := num.DecimalFromString(s)
	if err != nil {
		return 0, err
	}
	return inst.QuantityFromDecimal(d)
}

func aggressorSide(s string) (types.AggressorSide, error) {
	switch s {
	case "", "NO_AGGRESSOR":
		return types.AggressorSideNone, nil
	case "BUY", "BUYER":
		return types.AggressorSideBuyer, nil
	case "SELL", "SELLER":
		return types.AggressorSideSeller, nil
	}
	return types.AggressorSideNone, errors.Wrap(ErrInvalidAggressor, s)
}

func bookAction(s string) (types.BookAction, error) {
	switch s {
	case "ADD":
		return types.BookActionAdd, nil
	case "UPDATE":
		return types.BookActionUpdate, nil
	case "DELETE":
		return types.BookActionDelete, nil
	case "CLEAR":
		return types.BookActionClear, nil
	}
	return types.BookActionUnspecified, errors.Wrap(ErrInvalidBookAction, s)
}
