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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"bytes"
	"io"
	"os"
	"reflect"

	"code.vegaprotocol.io/simex/accounts"
	"code.vegaprotocol.io/simex/broker"
	"code.vegaprotocol.io/simex/config/encoding"
	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/fee"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/metrics"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/positions"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

var ErrUnknownConfigKeys = errors.New("unknown configuration keys")

// Config ties together all other application configuration types.
type Config struct {
	Logging   logging.Config       `group:"Logging" namespace:"logging"`
	Broker    broker.Config        `group:"Broker" namespace:"broker"`
	Exchange  exchange.Config      `group:"Exchange" namespace:"exchange"`
	Matching  matching.Config      `group:"Matching" namespace:"matching"`
	Positions positions.Config     `group:"Positions" namespace:"positions"`
	Accounts  accounts.Config      `group:"Accounts" namespace:"accounts"`
	Fee       fee.Config           `group:"Fee" namespace:"fee"`
	Latency   models.LatencyConfig `group:"Latency" namespace:"latency"`
	Fill      models.FillConfig    `group:"Fill" namespace:"fill"`
	Metrics   metrics.Config       `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all simex packages,
// as specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:   logging.NewDefaultConfig(),
		Broker:    broker.NewDefaultConfig(),
		Exchange:  exchange.NewDefaultConfig(),
		Matching:  matching.NewDefaultConfig(),
		Positions: positions.NewDefaultConfig(),
		Accounts:  accounts.NewDefaultConfig(),
		Fee:       fee.NewDefaultConfig(),
		Latency:   models.NewDefaultLatencyConfig(),
		Fill:      models.NewDefaultFillConfig(),
		Metrics:   metrics.NewDefaultConfig(),
	}
}

// Read loads the TOML file at path over the default configuration, keys
// missing from the file keep their default value.
func Read(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(buf))
}

// Decode is Read for an already opened configuration.
func Decode(r io.Reader) (*Config, error) {
	cfg := NewDefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrUnknownConfigKeys, "%v", undecoded)
	}
	return &cfg, nil
}

// Merge applies the non zero values of overrides on top of cfg, this is
// how the command line flags win over the configuration file.
func Merge(cfg *Config, overrides Config) error {
	return mergo.Merge(cfg, overrides, mergo.WithOverride, mergo.WithTransformers(decimalTransformer{}))
}

// decimalTransformer keeps zero decimals from overriding, mergo cannot
// tell a zero decimal from a set one as its fields are unexported.
type decimalTransformer struct{}

func (decimalTransformer) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != reflect.TypeOf(encoding.Decimal{}) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if d, ok := src.Interface().(encoding.Decimal); ok && !d.IsZero() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
