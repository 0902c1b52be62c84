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

package fee

import (
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
)

const namedLogger = "fee"

const (
	ModelMakerTaker  = "maker-taker"
	ModelFixed       = "fixed"
	ModelPerContract = "per-contract"
)

// Config represent the configuration of the fee engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Model string `long:"model" description:"commission model" choice:"maker-taker" choice:"fixed" choice:"per-contract"`
	// Commission is the fixed amount per fill, or per unit of quantity for
	// the per-contract model.
	Commission encoding.Decimal `long:"commission" description:"fixed or per contract commission"`
	// Currency of fixed and per contract commissions, defaults to the
	// instrument quote currency.
	Currency   string        `long:"currency" description:"commission currency"`
	ChargeOnce encoding.Bool `long:"charge-once" description:"fixed commission only charged on the first fill of an order"`
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		Model:      ModelMakerTaker,
		Commission: encoding.Decimal{Decimal: num.DecimalZero()},
	}
}
