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

package matching_test

import (
	"fmt"
	"testing"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/logging"
	"code.vegaprotocol.io/simex/matching"
	"code.vegaprotocol.io/simex/types"

	"pgregory.net/rapid"
)

func TestFilledNeverExceedsQuantity(t *testing.T) {
	orderTypes := []types.OrderType{
		types.OrderTypeMarket,
		types.OrderTypeLimit,
		types.OrderTypeMarketToLimit,
		types.OrderTypeStopMarket,
		types.OrderTypeStopLimit,
		types.OrderTypeMarketIfTouched,
		types.OrderTypeLimitIfTouched,
	}
	tifs := []types.TimeInForce{types.TimeInForceGTC, types.TimeInForceIOC, types.TimeInForceFOK}

	rapid.Check(t, func(rt *rapid.T) {
		cfg := matching.NewDefaultConfig()
		cfg.RejectStopOrders = false
		rec := &recorder{}
		e, err := matching.New(logging.NewTestLogger(), cfg, usdjpy(), nil, nil, &fakePositions{}, rec)
		if err != nil {
			rt.Fatalf("new engine: %v", err)
		}

		orders := []*types.Order{}
		var ts int64
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ts += 1000
			mid := rapid.Uint64Range(89_900, 90_100).Draw(rt, "mid")
			if rapid.Bool().Draw(rt, "quote") {
				spread := rapid.Uint64Range(1, 10).Draw(rt, "spread")
				size := rapid.Uint64Range(1, 500_000).Draw(rt, "size")
				if err := e.ProcessQuoteTick(&types.QuoteTick{
					InstrumentID: "USD/JPY.SIM",
					BidPrice:     num.NewUint(mid),
					AskPrice:     num.NewUint(mid + spread),
					BidSize:      size,
					AskSize:      size,
					TsEvent:      ts,
				}); err != nil {
					rt.Fatalf("quote: %v", err)
				}
			} else {
				ot := rapid.SampledFrom(orderTypes).Draw(rt, "type")
				p := types.OrderParams{
					TraderID:      traderID,
					InstrumentID:  "USD/JPY.SIM",
					ClientOrderID: fmt.Sprintf("O-%d", i),
					Side:          rapid.SampledFrom([]types.Side{types.SideBuy, types.SideSell}).Draw(rt, "side"),
					Type:          ot,
					Quantity:      rapid.Uint64Range(1, 1_000_000).Draw(rt, "qty"),
					TimeInForce:   rapid.SampledFrom(tifs).Draw(rt, "tif"),
				}
				if ot.HasPrice() && ot != types.OrderTypeMarketToLimit {
					p.Price = num.NewUint(rapid.Uint64Range(89_900, 90_100).Draw(rt, "price"))
				}
				if ot.HasTriggerPrice() {
					p.TriggerPrice = num.NewUint(rapid.Uint64Range(89_900, 90_100).Draw(rt, "trigger"))
				}
				o, err := types.NewOrder(p)
				if err != nil {
					rt.Fatalf("new order: %v", err)
				}
				if err := o.Apply(&types.OrderEvent{Type: types.OrderEventSubmitted, ClientOrderID: o.ClientOrderID, TsEvent: ts}); err != nil {
					rt.Fatalf("submit: %v", err)
				}
				e.SetTime(ts)
				e.ProcessOrder(o)
				orders = append(orders, o)
			}

			for _, o := range orders {
				if o.FilledQty > o.Quantity {
					rt.Fatalf("order %s filled %d above quantity %d", o.ClientOrderID, o.FilledQty, o.Quantity)
				}
				if (o.FilledQty == o.Quantity) != (o.Status == types.OrderStatusFilled) {
					rt.Fatalf("order %s filled %d of %d with status %s", o.ClientOrderID, o.FilledQty, o.Quantity, o.Status)
				}
				if o.TimeInForce == types.TimeInForceFOK && o.Status == types.OrderStatusCanceled && o.FilledQty > 0 {
					rt.Fatalf("FOK order %s canceled after a partial fill", o.ClientOrderID)
				}
				if o.TimeInForce != types.TimeInForceGTC && o.IsOpen() && o.Type != types.OrderTypeStopMarket &&
					o.Type != types.OrderTypeStopLimit && o.Type != types.OrderTypeMarketIfTouched && o.Type != types.OrderTypeLimitIfTouched {
					rt.Fatalf("%s order %s left open", o.TimeInForce, o.ClientOrderID)
				}
			}
		}
	})
}

func TestPostOnlyNeverTakes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rec := &recorder{}
		e, err := matching.New(logging.NewTestLogger(), matching.NewDefaultConfig(), usdjpy(), nil, nil, &fakePositions{}, rec)
		if err != nil {
			rt.Fatalf("new engine: %v", err)
		}
		bid := rapid.Uint64Range(89_900, 90_100).Draw(rt, "bid")
		ask := bid + rapid.Uint64Range(1, 10).Draw(rt, "spread")
		if err := e.ProcessQuoteTick(&types.QuoteTick{
			InstrumentID: "USD/JPY.SIM",
			BidPrice:     num.NewUint(bid),
			AskPrice:     num.NewUint(ask),
			BidSize:      1_000_000,
			AskSize:      1_000_000,
			TsEvent:      1000,
		}); err != nil {
			rt.Fatalf("quote: %v", err)
		}

		side := rapid.SampledFrom([]types.Side{types.SideBuy, types.SideSell}).Draw(rt, "side")
		price := rapid.Uint64Range(89_890, 90_120).Draw(rt, "price")
		o, err := types.NewOrder(types.OrderParams{
			TraderID:      traderID,
			InstrumentID:  "USD/JPY.SIM",
			ClientOrderID: "O-1",
			Side:          side,
			Type:          types.OrderTypeLimit,
			Quantity:      rapid.Uint64Range(1, 1_000_000).Draw(rt, "qty"),
			Price:         num.NewUint(price),
			TimeInForce:   types.TimeInForceGTC,
			PostOnly:      true,
		})
		if err != nil {
			rt.Fatalf("new order: %v", err)
		}
		if err := o.Apply(&types.OrderEvent{Type: types.OrderEventSubmitted, ClientOrderID: o.ClientOrderID, TsEvent: 1000}); err != nil {
			rt.Fatalf("submit: %v", err)
		}
		e.ProcessOrder(o)

		crosses := (side == types.SideBuy && price >= ask) || (side == types.SideSell && price <= bid)
		if o.FilledQty != 0 {
			rt.Fatalf("post only order filled %d", o.FilledQty)
		}
		if crosses && o.Status != types.OrderStatusRejected {
			rt.Fatalf("crossing post only order at %d (bid %d ask %d) is %s", price, bid, ask, o.Status)
		}
		if !crosses && o.Status != types.OrderStatusAccepted {
			rt.Fatalf("passive post only order at %d (bid %d ask %d) is %s", price, bid, ask, o.Status)
		}
	})
}

func TestReduceOnlyNeverIncreasesPosition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pos := &fakePositions{
			side: rapid.SampledFrom([]types.PositionSide{types.PositionSideFlat, types.PositionSideLong, types.PositionSideShort}).Draw(rt, "position side"),
		}
		if pos.side != types.PositionSideFlat {
			pos.qty = rapid.Uint64Range(1, 1_000_000).Draw(rt, "position qty")
		}
		rec := &recorder{}
		e, err := matching.New(logging.NewTestLogger(), matching.NewDefaultConfig(), usdjpy(), nil, nil, pos, rec)
		if err != nil {
			rt.Fatalf("new engine: %v", err)
		}
		if err := e.ProcessQuoteTick(&types.QuoteTick{
			InstrumentID: "USD/JPY.SIM",
			BidPrice:     num.NewUint(90_002),
			AskPrice:     num.NewUint(90_005),
			BidSize:      2_000_000,
			AskSize:      2_000_000,
			TsEvent:      1000,
		}); err != nil {
			rt.Fatalf("quote: %v", err)
		}

		side := rapid.SampledFrom([]types.Side{types.SideBuy, types.SideSell}).Draw(rt, "side")
		o, err := types.NewOrder(types.OrderParams{
			TraderID:      traderID,
			InstrumentID:  "USD/JPY.SIM",
			ClientOrderID: "O-1",
			Side:          side,
			Type:          types.OrderTypeMarket,
			Quantity:      rapid.Uint64Range(1, 1_000_000).Draw(rt, "qty"),
			TimeInForce:   types.TimeInForceGTC,
			ReduceOnly:    true,
		})
		if err != nil {
			rt.Fatalf("new order: %v", err)
		}
		if err := o.Apply(&types.OrderEvent{Type: types.OrderEventSubmitted, ClientOrderID: o.ClientOrderID, TsEvent: 1000}); err != nil {
			rt.Fatalf("submit: %v", err)
		}
		e.ProcessOrder(o)

		reduces := (side == types.SideSell && pos.side == types.PositionSideLong) ||
			(side == types.SideBuy && pos.side == types.PositionSideShort)
		if !reduces {
			if o.Status != types.OrderStatusRejected || o.FilledQty != 0 {
				rt.Fatalf("%s reduce only order against a %s position is %s with %d filled", side, pos.side, o.Status, o.FilledQty)
			}
			return
		}
		if o.FilledQty > pos.qty || o.Quantity > pos.qty {
			rt.Fatalf("reduce only order of %d filled %d against a position of %d", o.Quantity, o.FilledQty, pos.qty)
		}
		if o.Status != types.OrderStatusFilled {
			rt.Fatalf("reduce only order is %s", o.Status)
		}
	})
}
