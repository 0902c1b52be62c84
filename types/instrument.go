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

package types

import (
	"fmt"

	"code.vegaprotocol.io/simex/libs/num"

	"github.com/pkg/errors"
)

// Instrument is the reference data the venue needs to match and account an
// instrument. Prices are carried as integer ticks at PricePrecision and
// quantities as raw units at SizePrecision.
type Instrument struct {
	ID                 string
	BaseCurrency       string
	QuoteCurrency      string
	SettlementCurrency string
	IsInverse          bool

	PricePrecision uint8
	SizePrecision  uint8
	// PriceIncrement and SizeIncrement are raw, 1 means any tick.
	PriceIncrement *num.Uint
	SizeIncrement  uint64
	Multiplier     num.Decimal

	// MinQuantity and MaxQuantity are raw, zero means unbounded.
	MinQuantity uint64
	MaxQuantity uint64

	MarginInit  num.Decimal
	MarginMaint num.Decimal
	MakerFee    num.Decimal
	TakerFee    num.Decimal

	AllowQuoteQuantity bool
}

// Validate sanity checks the reference data.
func (i *Instrument) Validate() error {
	if len(i.ID) == 0 {
		return errors.Wrap(ErrInvalidInstrument, "missing id")
	}
	if len(i.QuoteCurrency) == 0 {
		return errors.Wrapf(ErrInvalidInstrument, "%s: missing quote currency", i.ID)
	}
	if i.IsInverse && len(i.BaseCurrency) == 0 {
		return errors.Wrapf(ErrInvalidInstrument, "%s: inverse instrument requires a base currency", i.ID)
	}
	if i.PriceIncrement == nil || i.PriceIncrement.IsZero() {
		return errors.Wrapf(ErrInvalidInstrument, "%s: price increment must be positive", i.ID)
	}
	if i.SizeIncrement == 0 {
		return errors.Wrapf(ErrInvalidInstrument, "%s: size increment must be positive", i.ID)
	}
	if !i.Multiplier.IsPositive() {
		return errors.Wrapf(ErrInvalidInstrument, "%s: multiplier must be positive", i.ID)
	}
	if i.MaxQuantity > 0 && i.MinQuantity > i.MaxQuantity {
		return errors.Wrapf(ErrInvalidInstrument, "%s: min quantity above max quantity", i.ID)
	}
	if i.MarginInit.IsNegative() || i.MarginMaint.IsNegative() {
		return errors.Wrapf(ErrInvalidInstrument, "%s: margin rates cannot be negative", i.ID)
	}
	return nil
}

// CostCurrency is the currency P&L and margins settle in.
func (i *Instrument) CostCurrency() string {
	if len(i.SettlementCurrency) > 0 {
		return i.SettlementCurrency
	}
	if i.IsInverse {
		return i.BaseCurrency
	}
	return i.QuoteCurrency
}

func (i *Instrument) PriceToDecimal(px *num.Uint) num.Decimal {
	return num.ScaleDown(px, i.PricePrecision)
}

func (i *Instrument) QuantityToDecimal(qty uint64) num.Decimal {
	return num.ScaleDownUint64(qty, i.SizePrecision)
}

// PriceFromDecimal converts a human price (90.005) into ticks.
func (i *Instrument) PriceFromDecimal(d num.Decimal) (*num.Uint, error) {
	if !d.Equal(d.Truncate(int32(i.PricePrecision))) {
		return nil, errors.Wrapf(ErrPriceNotRepresentable, "%s at precision %d", d, i.PricePrecision)
	}
	px, overflow := num.ScaleUp(d, i.PricePrecision)
	if overflow {
		return nil, errors.Wrapf(ErrPriceNotRepresentable, "%s", d)
	}
	return px, nil
}

// QuantityFromDecimal converts a human quantity into raw units.
func (i *Instrument) QuantityFromDecimal(d num.Decimal) (uint64, error) {
	if !d.Equal(d.Truncate(int32(i.SizePrecision))) {
		return 0, errors.Wrapf(ErrQuantityNotRepresentable, "%s at precision %d", d, i.SizePrecision)
	}
	q, overflow := num.ScaleUp(d, i.SizePrecision)
	if overflow || !q.IsUint64() {
		return 0, errors.Wrapf(ErrQuantityNotRepresentable, "%s", d)
	}
	return q.Uint64(), nil
}

// MustPrice is PriceFromDecimal for literals, it panics on bad input.
func (i *Instrument) MustPrice(s string) *num.Uint {
	px, err := i.PriceFromDecimal(num.MustDecimalFromString(s))
	if err != nil {
		panic(err)
	}
	return px
}

// MustQuantity is QuantityFromDecimal for literals, it panics on bad input.
func (i *Instrument) MustQuantity(s string) uint64 {
	q, err := i.QuantityFromDecimal(num.MustDecimalFromString(s))
	if err != nil {
		panic(err)
	}
	return q
}

func (i *Instrument) IsValidPrice(px *num.Uint) bool {
	return px != nil && num.UintZero().Mod(px, i.PriceIncrement).IsZero()
}

func (i *Instrument) IsValidQuantity(qty uint64) bool {
	return qty%i.SizeIncrement == 0
}

// NotionalValue of qty at px, in the quote currency, or the base currency
// for inverse instruments.
func (i *Instrument) NotionalValue(qty uint64, px *num.Uint) num.Decimal {
	q := i.QuantityToDecimal(qty).Mul(i.Multiplier)
	if i.IsInverse {
		p := i.PriceToDecimal(px)
		if p.IsZero() {
			return num.DecimalZero()
		}
		return q.Div(p)
	}
	return q.Mul(i.PriceToDecimal(px))
}

func (i *Instrument) String() string {
	return fmt.Sprintf("Instrument(%s price_precision=%d size_precision=%d)", i.ID, i.PricePrecision, i.SizePrecision)
}
