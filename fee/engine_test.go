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

package fee_test

import (
	"testing"

	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/fee"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audusd() *types.Instrument {
	return &types.Instrument{
		ID:             "AUD/USD.SIM",
		BaseCurrency:   "AUD",
		QuoteCurrency:  "USD",
		PricePrecision: 5,
		SizePrecision:  0,
		PriceIncrement: num.NewUint(1),
		SizeIncrement:  1,
		Multiplier:     num.DecimalOne(),
		MakerFee:       num.MustDecimalFromString("-0.00025"),
		TakerFee:       num.MustDecimalFromString("0.00002"),
	}
}

func xbtusd() *types.Instrument {
	return &types.Instrument{
		ID:             "XBTUSD.BITMEX",
		BaseCurrency:   "BTC",
		QuoteCurrency:  "USD",
		IsInverse:      true,
		PricePrecision: 1,
		SizePrecision:  0,
		PriceIncrement: num.NewUint(5),
		SizeIncrement:  1,
		Multiplier:     num.DecimalOne(),
		MakerFee:       num.MustDecimalFromString("-0.00025"),
		TakerFee:       num.MustDecimalFromString("0.00075"),
	}
}

func order(t *testing.T, filled uint64) *types.Order {
	t.Helper()
	o, err := types.NewOrder(types.OrderParams{
		InstrumentID:  "AUD/USD.SIM",
		ClientOrderID: "O-1",
		Side:          types.SideBuy,
		Type:          types.OrderTypeMarket,
		Quantity:      100000,
		TimeInForce:   types.TimeInForceGTC,
	})
	require.NoError(t, err)
	o.FilledQty = filled
	return o
}

func TestMakerTaker(t *testing.T) {
	e, err := fee.New(logging.NewTestLogger(), fee.NewDefaultConfig())
	require.NoError(t, err)
	inst := audusd()

	c, err := e.CalculateCommission(order(t, 0), 100000, inst.MustPrice("0.80000"), types.LiquiditySideTaker, inst)
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Currency)
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("1.6")), c.Amount.String())

	c, err = e.CalculateCommission(order(t, 0), 100000, inst.MustPrice("0.80000"), types.LiquiditySideMaker, inst)
	require.NoError(t, err)
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("-20")), c.Amount.String())

	_, err = e.CalculateCommission(order(t, 0), 1, inst.MustPrice("0.80000"), types.LiquiditySideNone, inst)
	assert.ErrorIs(t, err, fee.ErrInvalidLiquiditySide)
}

func TestMakerTakerInverse(t *testing.T) {
	inst := xbtusd()
	c, err := fee.MakerTaker{}.Commission(order(t, 0), 100000, inst.MustPrice("10000.0"), types.LiquiditySideTaker, inst)
	require.NoError(t, err)
	assert.Equal(t, "BTC", c.Currency)
	// 100000 / 10000 * 0.00075
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("0.0075")), c.Amount.String())
}

func TestFixed(t *testing.T) {
	cfg := fee.NewDefaultConfig()
	cfg.Model = fee.ModelFixed
	cfg.Commission = encoding.Decimal{Decimal: num.MustDecimalFromString("2.5")}
	cfg.ChargeOnce = true
	e, err := fee.New(logging.NewTestLogger(), cfg)
	require.NoError(t, err)
	inst := audusd()

	c, err := e.CalculateCommission(order(t, 0), 10, inst.MustPrice("0.80000"), types.LiquiditySideTaker, inst)
	require.NoError(t, err)
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("2.5")))
	assert.Equal(t, "USD", c.Currency)

	c, err = e.CalculateCommission(order(t, 10), 10, inst.MustPrice("0.80000"), types.LiquiditySideTaker, inst)
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	cfg.ChargeOnce = false
	e.ReloadConf(cfg)
	c, err = e.CalculateCommission(order(t, 10), 10, inst.MustPrice("0.80000"), types.LiquiditySideTaker, inst)
	require.NoError(t, err)
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("2.5")))
}

func TestPerContract(t *testing.T) {
	cfg := fee.NewDefaultConfig()
	cfg.Model = fee.ModelPerContract
	cfg.Commission = encoding.Decimal{Decimal: num.MustDecimalFromString("0.01")}
	cfg.Currency = "EUR"
	m, err := fee.NewModel(cfg)
	require.NoError(t, err)
	inst := audusd()

	c, err := m.Commission(order(t, 0), 300, inst.MustPrice("0.80000"), types.LiquiditySideMaker, inst)
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Currency)
	assert.True(t, c.Amount.Equal(num.MustDecimalFromString("3")))
}

func TestInvalidConfig(t *testing.T) {
	cfg := fee.NewDefaultConfig()
	cfg.Model = "tiered"
	_, err := fee.New(logging.NewTestLogger(), cfg)
	assert.ErrorIs(t, err, fee.ErrUnknownModel)

	cfg = fee.NewDefaultConfig()
	cfg.Commission = encoding.Decimal{Decimal: num.MustDecimalFromString("-1")}
	_, err = fee.NewModel(cfg)
	assert.ErrorIs(t, err, fee.ErrNegativeCommission)
}
