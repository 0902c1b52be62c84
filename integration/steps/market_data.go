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

package steps

import (
	"context"

	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/integration/stubs"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

// TheFollowingQuotesArePublished sends one quote tick per row, each a
// millisecond after the previous one.
func TheFollowingQuotesArePublished(
	ctx context.Context,
	ex *exchange.Exchange,
	clock *stubs.TimeStub,
	instruments map[string]*types.Instrument,
	table *godog.Table,
) error {
	rows := StrictParseTable(table, []string{"instrument", "bid", "ask", "bid size", "ask size"}, nil)
	for _, row := range rows {
		inst, ok := instruments[row.MustStr("instrument")]
		if !ok {
			return errUnknownInstrument(row.MustStr("instrument"))
		}
		ts := clock.Tick()
		if err := ex.ProcessQuoteTick(ctx, &types.QuoteTick{
			InstrumentID: inst.ID,
			BidPrice:     row.MustPrice(inst, "bid"),
			AskPrice:     row.MustPrice(inst, "ask"),
			BidSize:      row.MustQuantity(inst, "bid size"),
			AskSize:      row.MustQuantity(inst, "ask size"),
			TsEvent:      ts,
			TsInit:       ts,
		}); err != nil {
			return err
		}
	}
	return nil
}

// TheFollowingTradesArePublished sends one trade tick per row.
func TheFollowingTradesArePublished(
	ctx context.Context,
	ex *exchange.Exchange,
	clock *stubs.TimeStub,
	instruments map[string]*types.Instrument,
	table *godog.Table,
) error {
	rows := StrictParseTable(table, []string{"instrument", "price", "size"}, []string{"aggressor", "trade id"})
	for _, row := range rows {
		inst, ok := instruments[row.MustStr("instrument")]
		if !ok {
			return errUnknownInstrument(row.MustStr("instrument"))
		}
		aggressor := types.AggressorSideNone
		switch row.MustStr("aggressor") {
		case "BUYER":
			aggressor = types.AggressorSideBuyer
		case "SELLER":
			aggressor = types.AggressorSideSeller
		}
		ts := clock.Tick()
		if err := ex.ProcessTradeTick(ctx, &types.TradeTick{
			InstrumentID:  inst.ID,
			Price:         row.MustPrice(inst, "price"),
			Size:          row.MustQuantity(inst, "size"),
			AggressorSide: aggressor,
			TradeID:       row.MustStr("trade id"),
			TsEvent:       ts,
			TsInit:        ts,
		}); err != nil {
			return err
		}
	}
	return nil
}
