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

package steps

import (
	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

// TheInstruments lists the instruments on the venue, quantities are in
// units of the size precision.
func TheInstruments(ex *exchange.Exchange, instruments map[string]*types.Instrument, table *godog.Table) error {
	rows := StrictParseTable(table, []string{
		"id",
		"quote currency",
		"price precision",
	}, []string{
		"base currency",
		"size precision",
		"min quantity",
		"max quantity",
		"margin init",
		"margin maint",
		"maker fee",
		"taker fee",
	})
	for _, row := range rows {
		inst := &types.Instrument{
			ID:             row.MustStr("id"),
			BaseCurrency:   row.MustStr("base currency"),
			QuoteCurrency:  row.MustStr("quote currency"),
			PricePrecision: row.MustU8("price precision"),
			PriceIncrement: num.NewUint(1),
			SizeIncrement:  1,
			Multiplier:     num.DecimalOne(),
			MarginInit:     row.Decimal("margin init", num.DecimalZero()),
			MarginMaint:    row.Decimal("margin maint", num.DecimalZero()),
			MakerFee:       row.Decimal("maker fee", num.DecimalZero()),
			TakerFee:       row.Decimal("taker fee", num.DecimalZero()),
		}
		if row.HasColumn("size precision") {
			inst.SizePrecision = row.MustU8("size precision")
		}
		if row.HasColumn("min quantity") {
			inst.MinQuantity = row.MustU64("min quantity")
		}
		if row.HasColumn("max quantity") {
			inst.MaxQuantity = row.MustU64("max quantity")
		}
		if err := ex.AddInstrument(inst); err != nil {
			return err
		}
		instruments[inst.ID] = inst
	}
	return nil
}
