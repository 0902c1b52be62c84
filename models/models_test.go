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

package models_test

import (
	"testing"
	"time"

	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillModel(t *testing.T) {
	t.Run("certain outcomes", func(t *testing.T) {
		f, err := models.NewFillModel(models.NewDefaultFillConfig())
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			assert.True(t, f.IsLimitFilled())
			assert.False(t, f.IsSlipped())
		}
	})

	t.Run("same seed same draws", func(t *testing.T) {
		cfg := models.FillConfig{ProbFillOnLimit: 0.5, ProbSlippage: 0.3, RandomSeed: 7}
		a, err := models.NewFillModel(cfg)
		require.NoError(t, err)
		b, err := models.NewFillModel(cfg)
		require.NoError(t, err)
		first := make([]bool, 0, 50)
		for i := 0; i < 50; i++ {
			x := a.IsLimitFilled()
			first = append(first, x)
			assert.Equal(t, x, b.IsLimitFilled())
			assert.Equal(t, a.IsSlipped(), b.IsSlipped())
		}
		a.Reset()
		for i := 0; i < 50; i++ {
			assert.Equal(t, first[i], a.IsLimitFilled())
			a.IsSlipped()
		}
	})

	t.Run("invalid probability", func(t *testing.T) {
		_, err := models.NewFillModel(models.FillConfig{ProbFillOnLimit: 1.5})
		assert.ErrorIs(t, err, models.ErrInvalidProbability)
		_, err = models.NewFillModel(models.FillConfig{ProbFillOnLimit: 1, ProbSlippage: -0.1})
		assert.ErrorIs(t, err, models.ErrInvalidProbability)
	})
}

func TestLatencyModel(t *testing.T) {
	l := models.NewLatencyModel(models.LatencyConfig{
		Base:   encoding.Duration{Duration: time.Millisecond},
		Insert: encoding.Duration{Duration: 2 * time.Millisecond},
		Update: encoding.Duration{Duration: 3 * time.Millisecond},
		Delete: encoding.Duration{Duration: 4 * time.Millisecond},
	})
	assert.Equal(t, uint64(1_000_000), l.BaseLatency())
	assert.Equal(t, uint64(3_000_000), l.InsertLatency())
	assert.Equal(t, uint64(4_000_000), l.UpdateLatency())
	assert.Equal(t, uint64(5_000_000), l.DeleteLatency())
}
