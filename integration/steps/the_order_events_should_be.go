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
	"strings"

	"code.vegaprotocol.io/simex/broker"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

// TheOrderEventsShouldBe checks every event published for the order, in
// publication order.
func TheOrderEventsShouldBe(collector *broker.Collector, instruments map[string]*types.Instrument, clientOrderID string, table *godog.Table) error {
	rows := StrictParseTable(table, []string{"event"}, []string{"last qty", "last px", "liquidity", "commission", "reason"})

	var evts []*types.OrderEvent
	for _, e := range collector.OrderEvents() {
		if e.ClientOrderID() == clientOrderID {
			evts = append(evts, e.OrderEvent())
		}
	}
	if len(evts) != len(rows) {
		got := make([]string, 0, len(evts))
		for _, e := range evts {
			got = append(got, e.Type.String())
		}
		return fmt.Errorf("expected %d events for order %s, got %d: %s", len(rows), clientOrderID, len(evts), strings.Join(got, ", "))
	}

	for i, row := range rows {
		e := evts[i]
		expected := map[string]string{"event": row.MustStr("event")}
		got := map[string]string{"event": e.Type.String()}
		if row.HasColumn("reason") {
			expected["reason"] = row.MustStr("reason")
			got["reason"] = e.Reason
		}
		if f := e.Fill; f != nil {
			inst, ok := instruments[e.InstrumentID]
			if !ok {
				return errUnknownInstrument(e.InstrumentID)
			}
			if row.HasColumn("last qty") {
				expected["last qty"] = fmt.Sprint(row.MustQuantity(inst, "last qty"))
				got["last qty"] = fmt.Sprint(f.LastQty)
			}
			if row.HasColumn("last px") {
				expected["last px"] = row.MustPrice(inst, "last px").String()
				got["last px"] = f.LastPx.String()
			}
			if row.HasColumn("liquidity") {
				expected["liquidity"] = row.MustStr("liquidity")
				got["liquidity"] = f.LiquiditySide.String()
			}
			if row.HasColumn("commission") {
				expected["commission"] = row.MustStr("commission")
				got["commission"] = f.Commission.String()
			}
		}
		for k := range expected {
			if expected[k] != got[k] {
				return formatDiff(fmt.Sprintf("invalid event %d for order %s", i, clientOrderID), expected, got)
			}
		}
	}
	return nil
}
