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
	"math/rand"

	"github.com/pkg/errors"
)

// ErrInvalidProbability a probability outside of [0, 1].
var ErrInvalidProbability = errors.New("probability must be between 0 and 1")

// Fill decides whether resting limit orders at the touch get filled and
// whether aggressive fills on a top of book slip.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/fill_mock.go -package mocks code.vegaprotocol.io/simex/models Fill
type Fill interface {
	IsLimitFilled() bool
	IsSlipped() bool
}

// FillModel draws from a seeded generator, two models built with the same
// seed answer the same sequence of questions identically.
type FillModel struct {
	probFillOnLimit float64
	probSlippage    float64
	seed            int64
	rng             *rand.Rand
}

// NewFillModel validates the probabilities and seeds the generator.
func NewFillModel(cfg FillConfig) (*FillModel, error) {
	if cfg.ProbFillOnLimit < 0 || cfg.ProbFillOnLimit > 1 {
		return nil, errors.Wrap(ErrInvalidProbability, "prob-fill-on-limit")
	}
	if cfg.ProbSlippage < 0 || cfg.ProbSlippage > 1 {
		return nil, errors.Wrap(ErrInvalidProbability, "prob-slippage")
	}
	return &FillModel{
		probFillOnLimit: cfg.ProbFillOnLimit,
		probSlippage:    cfg.ProbSlippage,
		seed:            cfg.RandomSeed,
		rng:             rand.New(rand.NewSource(cfg.RandomSeed)),
	}, nil
}

// IsLimitFilled returns true when a limit order sitting at the touch
// receives a fill.
func (f *FillModel) IsLimitFilled() bool {
	return f.event(f.probFillOnLimit)
}

// IsSlipped returns true when an aggressive fill slips by one tick.
func (f *FillModel) IsSlipped() bool {
	return f.event(f.probSlippage)
}

// Reset reseeds the generator.
func (f *FillModel) Reset() {
	f.rng = rand.New(rand.NewSource(f.seed))
}

// certain outcomes do not consume a random number
func (f *FillModel) event(p float64) bool {
	switch p {
	case 0:
		return false
	case 1:
		return true
	}
	return f.rng.Float64() < p
}
