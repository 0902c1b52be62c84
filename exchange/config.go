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

package exchange

import (
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/logging"
)

const namedLogger = "exchange"

// Config represents the configuration of the simulated venue.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Venue    string `long:"venue" description:"name of the simulated venue"`
	TraderID string `long:"trader-id"`
	// UseMessageQueue defers commands to the next Process call, commands
	// are matched as soon as they are sent otherwise.
	UseMessageQueue encoding.Bool `long:"use-message-queue" description:"queue commands until the next process call"`
	SimulateLatency encoding.Bool `long:"simulate-latency" description:"delay commands by the configured latencies"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		Venue:           "SIM",
		TraderID:        "TRADER-001",
		UseMessageQueue: true,
		SimulateLatency: false,
	}
}
