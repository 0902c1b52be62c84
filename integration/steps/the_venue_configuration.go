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

	"code.vegaprotocol.io/simex/config"
	"code.vegaprotocol.io/simex/config/encoding"

	"github.com/cucumber/godog"
)

// TheVenueConfiguration overrides the defaults before the venue is built,
// one name and value per row.
func TheVenueConfiguration(cfg *config.Config, table *godog.Table) error {
	for _, row := range StrictParseTable(table, []string{"name", "value"}, nil) {
		value := row.MustStr("value")
		switch name := row.MustStr("name"); name {
		case "oms type":
			cfg.Positions.OmsType = value
		case "account type":
			cfg.Accounts.AccountType = value
		case "starting balances":
			cfg.Accounts.StartingBalances = row.StrSlice("value", ",")
		case "margin model":
			cfg.Accounts.MarginModel = value
		case "book type":
			cfg.Matching.BookType = value
		case "use message queue":
			cfg.Exchange.UseMessageQueue = encoding.Bool(row.MustBool("value"))
		case "use reduce only":
			cfg.Matching.UseReduceOnly = encoding.Bool(row.MustBool("value"))
		case "bar execution":
			cfg.Matching.BarExecution = encoding.Bool(row.MustBool("value"))
		case "reject stop orders":
			cfg.Matching.RejectStopOrders = encoding.Bool(row.MustBool("value"))
		default:
			return fmt.Errorf("unknown venue configuration %q, expected one of: %s", name,
				strings.Join([]string{"oms type", "account type", "starting balances", "margin model", "book type", "use message queue", "use reduce only", "bar execution", "reject stop orders"}, ", "))
		}
	}
	return nil
}
