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

	"github.com/cucumber/godog"
)

// ThePositionEventsShouldBe checks every position event published on the
// venue, in publication order.
func ThePositionEventsShouldBe(collector *broker.Collector, table *godog.Table) error {
	rows := StrictParseTable(table, []string{"event", "side", "quantity"}, []string{"position", "realized pnl"})
	evts := collector.PositionEvents()
	if len(evts) != len(rows) {
		got := make([]string, 0, len(evts))
		for _, e := range evts {
			got = append(got, e.String())
		}
		return fmt.Errorf("expected %d position events, got %d:\n\t%s", len(rows), len(evts), strings.Join(got, "\n\t"))
	}

	for i, row := range rows {
		s := evts[i].Snapshot()
		expected := map[string]string{
			"event":    row.MustStr("event"),
			"side":     row.MustStr("side"),
			"quantity": fmt.Sprint(row.MustU64("quantity")),
		}
		got := map[string]string{
			"event":    s.Type.String(),
			"side":     s.Side.String(),
			"quantity": fmt.Sprint(s.Quantity),
		}
		if row.HasColumn("position") {
			expected["position"] = row.MustStr("position")
			got["position"] = s.PositionID
		}
		if row.HasColumn("realized pnl") {
			expected["realized pnl"] = row.MustStr("realized pnl")
			got["realized pnl"] = s.RealizedPnL.String()
		}
		for k := range expected {
			if expected[k] != got[k] {
				return formatDiff(fmt.Sprintf("invalid position event %d", i), expected, got)
			}
		}
	}
	return nil
}
