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

package integration_test

import (
	"context"
	"fmt"
	"time"

	"code.vegaprotocol.io/simex/accounts"
	"code.vegaprotocol.io/simex/broker"
	"code.vegaprotocol.io/simex/config"
	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/fee"
	"code.vegaprotocol.io/simex/integration/steps"
	"code.vegaprotocol.io/simex/integration/stubs"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/models"
	"code.vegaprotocol.io/simex/positions"
	"code.vegaprotocol.io/simex/types"
)

var execsetup *venueTestSetup

// venueTestSetup is rebuilt for every scenario, the venue itself is only
// built once the configuration steps ran.
type venueTestSetup struct {
	ctx         context.Context
	cfg         config.Config
	log         *logging.Logger
	trader      steps.Trader
	timeService *stubs.TimeStub
	broker      *broker.Broker
	collector   *broker.Collector
	positions   *positions.Engine
	exchange    *exchange.Exchange
	instruments map[string]*types.Instrument
}

func newVenueTestSetup() *venueTestSetup {
	cfg := config.NewDefaultConfig()
	cfg.Accounts.StartingBalances = []string{"100000000 USD"}
	return &venueTestSetup{
		ctx: context.Background(),
		cfg: cfg,
		log: logging.NewTestLogger(),
		trader: steps.Trader{
			TraderID:   cfg.Exchange.TraderID,
			StrategyID: "S-001",
		},
		timeService: stubs.NewTimeStub(),
		instruments: map[string]*types.Instrument{},
	}
}

// venue builds the venue on first use.
func (s *venueTestSetup) venue() (*exchange.Exchange, error) {
	if s.exchange != nil {
		return s.exchange, nil
	}
	s.broker = broker.New(s.log, s.cfg.Broker)
	s.collector = broker.NewCollector(events.Topic{})
	s.broker.Subscribe(s.collector)

	var err error
	if s.positions, err = positions.New(s.log, s.cfg.Positions, s.broker); err != nil {
		return nil, err
	}
	acc, err := accounts.New(s.log, s.cfg.Accounts, s.broker, s.trader.TraderID, s.cfg.Exchange.Venue+"-001")
	if err != nil {
		return nil, err
	}
	fees, err := fee.New(s.log, s.cfg.Fee)
	if err != nil {
		return nil, err
	}
	fill, err := models.NewFillModel(s.cfg.Fill)
	if err != nil {
		return nil, err
	}
	ex, err := exchange.New(s.log, s.cfg.Exchange, s.cfg.Matching, s.broker, s.positions, acc, fees, fill, nil)
	if err != nil {
		return nil, err
	}
	s.timeService.NotifyOnTick(func(ctx context.Context, t time.Time) {
		ex.Process(ctx, t.UnixNano())
	})
	s.exchange = ex
	return ex, nil
}

// mustVenue is for the steps running after the instruments were listed.
func (s *venueTestSetup) mustVenue() (*exchange.Exchange, error) {
	if s.exchange == nil {
		return nil, fmt.Errorf("no instrument listed yet, the venue is not running")
	}
	return s.exchange, nil
}
