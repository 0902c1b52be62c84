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
	"fmt"

	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

func TheOrdersShouldHaveTheFollowingStates(ex *exchange.Exchange, instruments map[string]*types.Instrument, table *godog.Table) error {
	rows := StrictParseTable(table, []string{"id", "status"}, []string{"quantity", "filled", "price"})
	for _, row := range rows {
		id := row.MustStr("id")
		o, err := ex.Order(id)
		if err != nil {
			return errOrderNotFound(id, err)
		}
		inst, ok := instruments[o.InstrumentID]
		if !ok {
			return errUnknownInstrument(o.InstrumentID)
		}

		expected := map[string]string{"status": row.MustStr("status")}
		got := map[string]string{"status": o.Status.String()}
		if row.HasColumn("quantity") {
			expected["quantity"] = fmt.Sprint(row.MustQuantity(inst, "quantity"))
			got["quantity"] = fmt.Sprint(o.Quantity)
		}
		if row.HasColumn("filled") {
			expected["filled"] = fmt.Sprint(row.MustQuantity(inst, "filled"))
			got["filled"] = fmt.Sprint(o.FilledQty)
		}
		if row.HasColumn("price") {
			expected["price"] = row.MustPrice(inst, "price").String()
			got["price"] = "<nil>"
			if o.Price != nil {
				got["price"] = o.Price.String()
			}
		}
		for k := range expected {
			if expected[k] != got[k] {
				return formatDiff(fmt.Sprintf("invalid state for order %s", id), expected, got)
			}
		}
	}
	return nil
}

func NoOrderShouldBeOpen(ex *exchange.Exchange, instrumentID string) error {
	open, err := ex.OpenOrders(instrumentID)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		ids := make([]string, 0, len(open))
		for _, o := range open {
			ids = append(ids, o.ClientOrderID)
		}
		return fmt.Errorf("expected no open order on %s, got %v", instrumentID, ids)
	}
	return nil
}
