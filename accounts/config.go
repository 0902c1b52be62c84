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
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
)

const namedLogger = "accounts"

const (
	MarginModelStandard  = "standard"
	MarginModelLeveraged = "leveraged"
)

// Config represent the configuration of the account engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	AccountType  string `long:"account-type" description:"CASH or MARGIN" choice:"CASH" choice:"MARGIN"`
	BaseCurrency string `long:"base-currency" description:"single currency of the account, empty for multi currency"`
	// StartingBalances are "<amount> <currency>" pairs.
	StartingBalances []string          `long:"starting-balance" description:"starting balance, for example \"1000000 USD\""`
	DefaultLeverage  encoding.Decimal  `long:"default-leverage"`
	Leverages        map[string]string `long:"leverage" description:"per instrument leverage, instrument:leverage"`
	MarginModel      string            `long:"margin-model" choice:"standard" choice:"leveraged"`
	Frozen           encoding.Bool     `long:"frozen" description:"balances never change, adjustments are only recorded"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		AccountType:      "MARGIN",
		StartingBalances: []string{"1000000 USD"},
		DefaultLeverage:  encoding.Decimal{Decimal: num.DecimalOne()},
		Leverages:        map[string]string{},
		MarginModel:      MarginModelLeveraged,
	}
}
