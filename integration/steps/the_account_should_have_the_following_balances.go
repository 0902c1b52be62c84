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

	"github.com/cucumber/godog"
)

func TheAccountShouldHaveTheFollowingBalances(ex *exchange.Exchange, table *godog.Table) error {
	st := ex.Account()
	for _, row := range StrictParseTable(table, []string{"currency", "total"}, []string{"locked", "free"}) {
		ccy := row.MustStr("currency")
		found := false
		for _, b := range st.Balances {
			if b.Currency != ccy {
				continue
			}
			found = true
			expected := map[string]string{"total": row.MustDecimal("total").String()}
			got := map[string]string{"total": b.Total.String()}
			if row.HasColumn("locked") {
				expected["locked"] = row.MustDecimal("locked").String()
				got["locked"] = b.Locked.String()
			}
			if row.HasColumn("free") {
				expected["free"] = row.MustDecimal("free").String()
				got["free"] = b.Free.String()
			}
			for k := range expected {
				if expected[k] != got[k] {
					return formatDiff(fmt.Sprintf("invalid %s balance of account %s", ccy, st.AccountID), expected, got)
				}
			}
		}
		if !found {
			return fmt.Errorf("account %s has no %s balance", st.AccountID, ccy)
		}
	}
	return nil
}
