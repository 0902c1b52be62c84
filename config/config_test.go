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

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"code.vegaprotocol.io/simex/config"
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venueConfig = `
[Exchange]
  Venue = "BINANCE"
  UseMessageQueue = false

[Matching]
  Level = "Debug"
  BookType = "L2_MBP"

[Accounts]
  AccountType = "CASH"
  StartingBalances = ["10000 USDT", "1 BTC"]
  DefaultLeverage = "5"

[Latency]
  Insert = "2ms"
`

func TestDecode(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(venueConfig))
	require.NoError(t, err)

	assert.Equal(t, "BINANCE", cfg.Exchange.Venue)
	assert.False(t, cfg.Exchange.UseMessageQueue.Get())
	assert.Equal(t, logging.DebugLevel, cfg.Matching.Level.Get())
	assert.Equal(t, "L2_MBP", cfg.Matching.BookType)
	assert.Equal(t, "CASH", cfg.Accounts.AccountType)
	assert.Equal(t, []string{"10000 USDT", "1 BTC"}, cfg.Accounts.StartingBalances)
	assert.Equal(t, "5", cfg.Accounts.DefaultLeverage.String())
	assert.Equal(t, 2*time.Millisecond, cfg.Latency.Insert.Get())

	// untouched keys keep their defaults
	def := config.NewDefaultConfig()
	assert.Equal(t, def.Exchange.TraderID, cfg.Exchange.TraderID)
	assert.Equal(t, def.Positions.OmsType, cfg.Positions.OmsType)
	assert.Equal(t, def.Fill.ProbFillOnLimit, cfg.Fill.ProbFillOnLimit)
}

func TestDecodeErrors(t *testing.T) {
	_, err := config.Decode(strings.NewReader("[Exchange]\n  Venu = \"SIM\"\n"))
	assert.ErrorIs(t, err, config.ErrUnknownConfigKeys)

	_, err = config.Decode(strings.NewReader("[Latency]\n  Insert = \"soon\"\n"))
	assert.Error(t, err)

	_, err = config.Read(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWriteThenRead(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Exchange.SimulateLatency = true
	cfg.Latency.Base = encoding.Duration{Duration: time.Millisecond}

	buf := &bytes.Buffer{}
	require.NoError(t, config.Write(buf, cfg))
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	got, err := config.Read(path)
	require.NoError(t, err)
	assert.True(t, got.Exchange.SimulateLatency.Get())
	assert.Equal(t, time.Millisecond, got.Latency.Base.Get())
	assert.True(t, got.Accounts.DefaultLeverage.Equal(num.DecimalOne()))
}

func TestMerge(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Accounts.DefaultLeverage = encoding.Decimal{Decimal: num.MustDecimalFromString("10")}

	overrides := config.Config{}
	overrides.Exchange.Venue = "FTX"
	overrides.Exchange.SimulateLatency = true
	overrides.Fee.Commission = encoding.Decimal{Decimal: num.MustDecimalFromString("0.5")}
	require.NoError(t, config.Merge(&cfg, overrides))

	assert.Equal(t, "FTX", cfg.Exchange.Venue)
	assert.True(t, cfg.Exchange.SimulateLatency.Get())
	assert.Equal(t, "0.5", cfg.Fee.Commission.String())
	// zero values never override
	assert.Equal(t, "10", cfg.Accounts.DefaultLeverage.String())
	assert.Equal(t, "TRADER-001", cfg.Exchange.TraderID)
	assert.True(t, cfg.Exchange.UseMessageQueue.Get())
}
