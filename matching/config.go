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

package matching

import (
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/logging"
)

const namedLogger = "matching"

// Config represents the configuration of the matching engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	BookType         string        `long:"book-type" description:"L1_MBP or L2_MBP"`
	BarExecution     encoding.Bool `long:"bar-execution" description:"execute against bars on L1 books"`
	RejectStopOrders encoding.Bool `long:"reject-stop-orders" description:"reject conditional orders already in the market"`
	SupportGTDOrders encoding.Bool `long:"support-gtd-orders" description:"expire GTD orders in the venue"`
	UseReduceOnly    encoding.Bool `long:"use-reduce-only" description:"honour the reduce only flag"`

	LogPriceLevelsDebug bool `long:"log-price-levels-debug"`
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		BookType:         "L1_MBP",
		BarExecution:     true,
		RejectStopOrders: true,
		SupportGTDOrders: true,
		UseReduceOnly:    true,
	}
}
