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

package models

import (
	"time"

	"code.vegaprotocol.io/simex/config/encoding"
)

// FillConfig parameterises the probabilistic fill model.
type FillConfig struct {
	ProbFillOnLimit float64 `long:"prob-fill-on-limit" description:"probability a resting limit order at the touch is filled"`
	ProbSlippage    float64 `long:"prob-slippage" description:"probability an L1 aggressive fill slips one tick"`
	RandomSeed      int64   `long:"random-seed" description:"seed of the fill model random generator"`
}

// NewDefaultFillConfig fills every touch, never slips.
func NewDefaultFillConfig() FillConfig {
	return FillConfig{
		ProbFillOnLimit: 1,
		ProbSlippage:    0,
		RandomSeed:      42,
	}
}

// LatencyConfig holds the simulated command latencies, each command kind
// pays the base latency plus its own.
type LatencyConfig struct {
	Base   encoding.Duration `long:"base" description:"latency applied to every command"`
	Insert encoding.Duration `long:"insert" description:"extra latency of submit commands"`
	Update encoding.Duration `long:"update" description:"extra latency of modify commands"`
	Delete encoding.Duration `long:"delete" description:"extra latency of cancel commands"`
}

// NewDefaultLatencyConfig returns a zero latency model.
func NewDefaultLatencyConfig() LatencyConfig {
	return LatencyConfig{
		Base:   encoding.Duration{Duration: 0 * time.Millisecond},
		Insert: encoding.Duration{},
		Update: encoding.Duration{},
		Delete: encoding.Duration{},
	}
}
