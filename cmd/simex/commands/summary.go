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
	"fmt"
	"io"
	"sort"
	"time"

	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/types"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"
)

// writeSummary prints the outcome of a replay: event counts, the final
// positions and the account balances.
func writeSummary(w io.Writer, p *printer, ex *exchange.Exchange, steps int, elapsed time.Duration, hash []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(w, "\n%s\n", green("Replay summary"))
	fmt.Fprintf(w, "  steps:        %s\n", humanize.Comma(int64(steps)))
	fmt.Fprintf(w, "  events:       %s\n", humanize.Comma(int64(p.events)))
	fmt.Fprintf(w, "  fills:        %s\n", humanize.Comma(int64(p.fills)))
	fmt.Fprintf(w, "  wall time:    %s\n", elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "  positions:    %x\n", hash)

	evtTypes := maps.Keys(p.orderEvents)
	sort.Slice(evtTypes, func(i, j int) bool { return evtTypes[i] < evtTypes[j] })
	if len(evtTypes) > 0 {
		fmt.Fprintf(w, "\n  %s\n", "order events")
	}
	for _, t := range evtTypes {
		fmt.Fprintf(w, "    %-22s %s\n", t, humanize.Comma(int64(p.orderEvents[t])))
	}

	for _, id := range ex.Instruments() {
		fmt.Fprintf(w, "\n  %s traded %s\n", cyan(id), humanize.Comma(int64(p.filledQty[id])))
		for _, ps := range ex.Positions(id) {
			fmt.Fprintf(w, "    %s %s %s realized %s unrealized %s\n",
				ps.PositionID, ps.Side, humanize.Comma(ps.SignedQty),
				money(ps.RealizedPnL), money(ps.UnrealizedPnL))
		}
	}

	acc := ex.Account()
	fmt.Fprintf(w, "\n  %s %s\n", purple("account"), acc.AccountID)
	for _, b := range acc.Balances {
		fmt.Fprintf(w, "    %-6s total %s locked %s free %s\n", b.Currency,
			humanize.CommafWithDigits(b.Total.InexactFloat64(), 8),
			humanize.CommafWithDigits(b.Locked.InexactFloat64(), 8),
			humanize.CommafWithDigits(b.Free.InexactFloat64(), 8))
	}
}

func money(m types.Money) string {
	return humanize.CommafWithDigits(m.Amount.InexactFloat64(), 8) + " " + m.Currency
}
