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
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var ErrUnknownMarginModel = errors.New("unknown margin model")

// MarginModel computes the margin requirements of a quantity at a price.
type MarginModel interface {
	InitialMargin(inst *types.Instrument, qty uint64, px *num.Uint, leverage num.Decimal) num.Decimal
	MaintenanceMargin(inst *types.Instrument, qty uint64, px *num.Uint, leverage num.Decimal) num.Decimal
}

// StandardMarginModel applies the instrument rates to the full notional,
// leverage is ignored.
type StandardMarginModel struct{}

func (StandardMarginModel) InitialMargin(inst *types.Instrument, qty uint64, px *num.Uint, _ num.Decimal) num.Decimal {
	return inst.NotionalValue(qty, px).Mul(inst.MarginInit)
}

func (StandardMarginModel) MaintenanceMargin(inst *types.Instrument, qty uint64, px *num.Uint, _ num.Decimal) num.Decimal {
	return inst.NotionalValue(qty, px).Mul(inst.MarginMaint)
}

// LeveragedMarginModel divides the notional by the leverage first.
type LeveragedMarginModel struct{}

func (LeveragedMarginModel) InitialMargin(inst *types.Instrument, qty uint64, px *num.Uint, leverage num.Decimal) num.Decimal {
	return leveraged(inst, qty, px, leverage).Mul(inst.MarginInit)
}

func (LeveragedMarginModel) MaintenanceMargin(inst *types.Instrument, qty uint64, px *num.Uint, leverage num.Decimal) num.Decimal {
	return leveraged(inst, qty, px, leverage).Mul(inst.MarginMaint)
}

func leveraged(inst *types.Instrument, qty uint64, px *num.Uint, leverage num.Decimal) num.Decimal {
	n := inst.NotionalValue(qty, px)
	if !leverage.IsPositive() {
		return n
	}
	return n.Div(leverage)
}

// NewMarginModel returns the model by name.
func NewMarginModel(name string) (MarginModel, error) {
	switch name {
	case MarginModelStandard:
		return StandardMarginModel{}, nil
	case MarginModelLeveraged, "":
		return LeveragedMarginModel{}, nil
	}
	return nil, errors.Wrap(ErrUnknownMarginModel, name)
}
