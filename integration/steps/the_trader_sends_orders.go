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
	"fmt"

	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/integration/stubs"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

// Trader is who the commands of a scenario are sent for.
type Trader struct {
	TraderID   string
	StrategyID string
}

func TheTraderPlacesTheFollowingOrders(
	ctx context.Context,
	ex *exchange.Exchange,
	clock *stubs.TimeStub,
	trader Trader,
	instruments map[string]*types.Instrument,
	table *godog.Table,
) error {
	rows := StrictParseTable(table, []string{
		"id",
		"instrument",
		"side",
		"type",
		"quantity",
	}, []string{
		"price",
		"trigger price",
		"tif",
		"expires in",
		"post only",
		"reduce only",
		"position",
		"error",
	})
	for _, row := range rows {
		inst, ok := instruments[row.MustStr("instrument")]
		if !ok {
			return errUnknownInstrument(row.MustStr("instrument"))
		}
		ts := clock.Tick()
		p := types.OrderParams{
			TraderID:      trader.TraderID,
			StrategyID:    trader.StrategyID,
			InstrumentID:  inst.ID,
			ClientOrderID: row.MustStr("id"),
			PositionID:    row.MustStr("position"),
			Side:          row.MustSide("side"),
			Type:          row.MustOrderType("type"),
			Quantity:      row.MustQuantity(inst, "quantity"),
			Price:         row.Price(inst, "price"),
			TriggerPrice:  row.Price(inst, "trigger price"),
			TimeInForce:   row.TIF("tif"),
			PostOnly:      row.Bool("post only"),
			ReduceOnly:    row.Bool("reduce only"),
			TsInit:        ts,
		}
		if row.HasColumn("expires in") {
			p.ExpireTime = ts + row.MustI64("expires in")
		}
		o, err := types.NewOrder(p)
		if err != nil {
			return err
		}
		err = ex.Send(ctx, &types.SubmitOrder{
			TraderID:   trader.TraderID,
			StrategyID: trader.StrategyID,
			Order:      o,
			PositionID: p.PositionID,
			TsInit:     ts,
		})
		if err := checkExpectedError(row, err); err != nil {
			return err
		}
	}
	return nil
}

func TheTraderAmendsTheFollowingOrders(
	ctx context.Context,
	ex *exchange.Exchange,
	clock *stubs.TimeStub,
	trader Trader,
	instruments map[string]*types.Instrument,
	table *godog.Table,
) error {
	rows := StrictParseTable(table, []string{"id", "instrument"}, []string{"quantity", "price", "trigger price"})
	for _, row := range rows {
		inst, ok := instruments[row.MustStr("instrument")]
		if !ok {
			return errUnknownInstrument(row.MustStr("instrument"))
		}
		cmd := &types.ModifyOrder{
			TraderID:      trader.TraderID,
			StrategyID:    trader.StrategyID,
			InstrumentID:  inst.ID,
			ClientOrderID: row.MustStr("id"),
			Price:         row.Price(inst, "price"),
			TriggerPrice:  row.Price(inst, "trigger price"),
			TsInit:        clock.Tick(),
		}
		if row.HasColumn("quantity") {
			qty := row.MustQuantity(inst, "quantity")
			cmd.Quantity = &qty
		}
		if err := ex.Send(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func TheTraderCancelsTheFollowingOrders(
	ctx context.Context,
	ex *exchange.Exchange,
	clock *stubs.TimeStub,
	trader Trader,
	table *godog.Table,
) error {
	for _, row := range StrictParseTable(table, []string{"id", "instrument"}, nil) {
		if err := ex.Send(ctx, &types.CancelOrder{
			TraderID:      trader.TraderID,
			StrategyID:    trader.StrategyID,
			InstrumentID:  row.MustStr("instrument"),
			ClientOrderID: row.MustStr("id"),
			TsInit:        clock.Tick(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func TheTraderCancelsAllOrders(ctx context.Context, ex *exchange.Exchange, clock *stubs.TimeStub, trader Trader, instrumentID string) error {
	return ex.Send(ctx, &types.CancelAllOrders{
		TraderID:     trader.TraderID,
		StrategyID:   trader.StrategyID,
		InstrumentID: instrumentID,
		TsInit:       clock.Tick(),
	})
}

// checkExpectedError compares the error returned by the venue with the
// optional error column.
func checkExpectedError(row RowWrapper, returnedErr error) error {
	expected := row.MustStr("error")
	switch {
	case len(expected) > 0 && returnedErr == nil:
		return fmt.Errorf("%q should have failed with %q", row.MustStr("id"), expected)
	case returnedErr == nil:
		return nil
	case len(expected) == 0:
		return fmt.Errorf("%q has failed: %s", row.MustStr("id"), returnedErr.Error())
	case expected != returnedErr.Error():
		return formatDiff(fmt.Sprintf("%q is failing as expected but not with the expected error message", row.MustStr("id")),
			map[string]string{"error": expected},
			map[string]string{"error": returnedErr.Error()},
		)
	}
	return nil
}
