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

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"code.vegaprotocol.io/simex/accounts"
	"code.vegaprotocol.io/simex/broker"
	"code.vegaprotocol.io/simex/config"
	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/fee"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/metrics"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/positions"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	uuid "github.com/satori/go.uuid"
)

type ReplayCmd struct {
	// command line overrides of the configuration file
	config.Config

	ConfigPath string `short:"c" long:"config" description:"TOML configuration file, the defaults are used when empty"`
	Watch      bool   `long:"watch" description:"Reload the configuration file between two steps when it changes"`
	AccountID  string `long:"account-id" description:"ID of the venue account, generated when empty"`
	Quiet      bool   `short:"q" long:"quiet" description:"Only print the summary"`
	NoColor    bool   `long:"no-color" description:"Disable the coloured output"`

	Args struct {
		Scenario string `positional-arg-name:"scenario" required:"yes" description:"YAML scenario to replay"`
	} `positional-args:"yes"`

	ctx context.Context
	out io.Writer
}

var replayCmd ReplayCmd

func Replay(ctx context.Context, parser *flags.Parser) error {
	replayCmd = ReplayCmd{
		ctx: ctx,
		out: os.Stdout,
	}
	_, err := parser.AddCommand("replay", "Replay a scenario on the simulated venue",
		"Replay the market data and trading commands of a YAML scenario on the simulated venue and print every event", &replayCmd)
	return err
}

// venue is the simulated venue and the engines it books fills on.
type venue struct {
	broker    *broker.Broker
	positions *positions.Engine
	accounts  *accounts.Engine
	fees      *fee.Engine
	exchange  *exchange.Exchange
}

func newVenue(log *logging.Logger, cfg config.Config, accountID string) (*venue, error) {
	v := &venue{broker: broker.New(log, cfg.Broker)}
	var err error
	if v.positions, err = positions.New(log, cfg.Positions, v.broker); err != nil {
		return nil, err
	}
	if v.accounts, err = accounts.New(log, cfg.Accounts, v.broker, cfg.Exchange.TraderID, accountID); err != nil {
		return nil, err
	}
	if v.fees, err = fee.New(log, cfg.Fee); err != nil {
		return nil, err
	}
	fill, err := models.NewFillModel(cfg.Fill)
	if err != nil {
		return nil, err
	}
	var latency *models.LatencyModel
	if cfg.Exchange.SimulateLatency.Get() {
		latency = models.NewLatencyModel(cfg.Latency)
	}
	v.exchange, err = exchange.New(log, cfg.Exchange, cfg.Matching, v.broker, v.positions, v.accounts, v.fees, fill, latency)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (v *venue) ReloadConf(cfg config.Config) {
	v.broker.ReloadConf(cfg.Broker)
	v.positions.ReloadConf(cfg.Positions)
	v.accounts.ReloadConf(cfg.Accounts)
	v.fees.ReloadConf(cfg.Fee)
	v.exchange.ReloadConf(cfg.Exchange, cfg.Matching)
}

func (opts *ReplayCmd) Execute(_ []string) error {
	if f, ok := opts.out.(*os.File); opts.NoColor || (ok && !isatty.IsTerminal(f.Fd())) {
		color.NoColor = true
	}
	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	sc, err := ReadScenario(opts.Args.Scenario)
	if err != nil {
		return fmt.Errorf("could not read scenario: %w", err)
	}
	if err := metrics.Start(log, cfg.Metrics); err != nil {
		return err
	}

	accountID := opts.AccountID
	if len(accountID) == 0 {
		accountID = fmt.Sprintf("%s-%s", cfg.Exchange.Venue, uuid.NewV4().String())
	}
	v, err := newVenue(log, cfg, accountID)
	if err != nil {
		return err
	}
	p := newPrinter(opts.out, opts.Quiet)
	v.broker.Subscribe(p)

	r, err := newRunner(v.exchange, cfg.Exchange.TraderID, sc)
	if err != nil {
		return err
	}
	if opts.Watch && len(opts.ConfigPath) > 0 {
		w, err := config.NewWatcher(log, opts.ConfigPath)
		if err != nil {
			return err
		}
		w.OnConfigUpdate(func(c config.Config) {
			if err := config.Merge(&c, opts.Config); err != nil {
				log.Error("unable to apply the command line overrides", logging.Error(err))
				return
			}
			v.ReloadConf(c)
		})
		go func() {
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				log.Error("config watcher stopped", logging.Error(err))
			}
		}()
		r.between = func() { w.Notify() }
	}

	started := time.Now()
	if err := r.Run(ctx, sc.Steps); err != nil {
		return err
	}
	writeSummary(opts.out, p, v.exchange, r.steps, time.Since(started), v.positions.Hash())
	return nil
}

// loadConfig reads the configuration file, or takes the defaults, then
// applies the command line overrides.
func (opts *ReplayCmd) loadConfig() (config.Config, error) {
	cfg := config.NewDefaultConfig()
	if len(opts.ConfigPath) > 0 {
		c, err := config.Read(opts.ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("could not read configuration: %w", err)
		}
		cfg = *c
	}
	if err := config.Merge(&cfg, opts.Config); err != nil {
		return cfg, err
	}
	return cfg, nil
}
