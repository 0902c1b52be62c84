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

	"code.vegaprotocol.io/simex/exchange"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

// runner feeds the steps of a scenario to the venue, the venue clock is
// advanced to every step time once the step is applied.
type runner struct {
	ex          *exchange.Exchange
	traderID    string
	strategyID  string
	start       int64
	instruments map[string]*types.Instrument
	// called between two steps, used to apply configuration updates
	between func()
	steps   int
}

func newRunner(ex *exchange.Exchange, traderID string, sc *Scenario) (*runner, error) {
	r := &runner{
		ex:          ex,
		traderID:    traderID,
		strategyID:  sc.StrategyID,
		instruments: map[string]*types.Instrument{},
		between:     func() {},
	}
	if !sc.Start.IsZero() {
		r.start = sc.Start.UnixNano()
	}
	for _, spec := range sc.Instruments {
		inst, err := spec.Instrument()
		if err != nil {
			return nil, errors.Wrapf(err, "instrument %s", spec.ID)
		}
		if err := ex.AddInstrument(inst); err != nil {
			return nil, err
		}
		r.instruments[inst.ID] = inst
	}
	return r, nil
}

func (r *runner) Run(ctx context.Context, steps []Step) error {
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		ts := r.start + s.At.Nanoseconds()
		if err := r.apply(ctx, s, ts); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		r.ex.Process(ctx, ts)
		r.steps++
		r.between()
	}
	return nil
}

func (r *runner) instrument(id string) (*types.Instrument, error) {
	inst, ok := r.instruments[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknownInstrument, id)
	}
	return inst, nil
}

func (r *runner) apply(ctx context.Context, s Step, ts int64) error {
	switch {
	case s.Quote != nil:
		return r.quote(ctx, s.Quote, ts)
	case s.Trade != nil:
		return r.trade(ctx, s.Trade, ts)
	case s.Bar != nil:
		return r.bar(ctx, s.Bar, ts)
	case s.Deltas != nil:
		return r.deltas(ctx, s.Deltas, ts)
	case s.Status != nil:
		action, err := types.MarketStatusActionFromString(s.Status.Action)
		if err != nil {
			return err
		}
		_, err = r.ex.ProcessStatus(ctx, s.Status.Instrument, action, ts)
		return err
	case s.Submit != nil:
		return r.submit(ctx, s.Submit, ts)
	case s.Modify != nil:
		return r.modify(ctx, s.Modify, ts)
	case s.Cancel != nil:
		return r.ex.Send(ctx, &types.CancelOrder{
			TraderID:      r.traderID,
			StrategyID:    r.strategyID,
			InstrumentID:  s.Cancel.Instrument,
			ClientOrderID: s.Cancel.ID,
			TsInit:        ts,
		})
	case s.CancelAll != nil:
		side, err := types.SideFromString(s.CancelAll.Side)
		if err != nil {
			return err
		}
		return r.ex.Send(ctx, &types.CancelAllOrders{
			TraderID:     r.traderID,
			StrategyID:   r.strategyID,
			InstrumentID: s.CancelAll.Instrument,
			Side:         side,
			TsInit:       ts,
		})
	case s.BatchCancel != nil:
		cancels := make([]*types.CancelOrder, 0, len(s.BatchCancel.IDs))
		for _, id := range s.BatchCancel.IDs {
			cancels = append(cancels, &types.CancelOrder{
				TraderID:      r.traderID,
				StrategyID:    r.strategyID,
				InstrumentID:  s.BatchCancel.Instrument,
				ClientOrderID: id,
				TsInit:        ts,
			})
		}
		return r.ex.Send(ctx, &types.BatchCancelOrders{
			TraderID:     r.traderID,
			StrategyID:   r.strategyID,
			InstrumentID: s.BatchCancel.Instrument,
			Cancels:      cancels,
			TsInit:       ts,
		})
	case s.Adjust != nil:
		amount, err := num.DecimalFromString(s.Adjust.Amount)
		if err != nil {
			return errors.Wrap(err, "adjust amount")
		}
		return r.ex.AdjustAccount(ctx, types.NewMoney(amount, s.Adjust.Currency))
	}
	// process only
	return nil
}

func (r *runner) quote(ctx context.Context, q *QuoteStep, ts int64) error {
	inst, err := r.instrument(q.Instrument)
	if err != nil {
		return err
	}
	tick := &types.QuoteTick{InstrumentID: inst.ID, TsEvent: ts, TsInit: ts}
	if tick.BidPrice, err = price(inst, q.Bid); err != nil {
		return errors.Wrap(err, "bid")
	}
	if tick.AskPrice, err = price(inst, q.Ask); err != nil {
		return errors.Wrap(err, "ask")
	}
	if tick.BidSize, err = quantity(inst, q.BidSize); err != nil {
		return errors.Wrap(err, "bid_size")
	}
	if tick.AskSize, err = quantity(inst, q.AskSize); err != nil {
		return errors.Wrap(err, "ask_size")
	}
	return r.ex.ProcessQuoteTick(ctx, tick)
}

func (r *runner) trade(ctx context.Context, t *TradeStep, ts int64) error {
	inst, err := r.instrument(t.Instrument)
	if err != nil {
		return err
	}
	tick := &types.TradeTick{InstrumentID: inst.ID, TradeID: t.TradeID, TsEvent: ts, TsInit: ts}
	if tick.Price, err = price(inst, t.Price); err != nil {
		return errors.Wrap(err, "price")
	}
	if tick.Size, err = quantity(inst, t.Size); err != nil {
		return errors.Wrap(err, "size")
	}
	if tick.AggressorSide, err = aggressorSide(t.Aggressor); err != nil {
		return err
	}
	return r.ex.ProcessTradeTick(ctx, tick)
}

func (r *runner) bar(ctx context.Context, b *BarStep, ts int64) error {
	inst, err := r.instrument(b.Instrument)
	if err != nil {
		return err
	}
	agg, err := types.BarAggregationFromString(b.Aggregation)
	if err != nil {
		return err
	}
	pt, err := types.PriceTypeFromString(b.PriceType)
	if err != nil {
		return err
	}
	bar := &types.Bar{
		BarType: types.BarType{
			InstrumentID: inst.ID,
			Spec:         types.BarSpec{Step: b.Step, Aggregation: agg, PriceType: pt},
		},
		TsEvent: ts,
		TsInit:  ts,
	}
	for _, f := range []struct {
		name string
		s    string
		dst  **num.Uint
	}{
		{"open", b.Open, &bar.Open},
		{"high", b.High, &bar.High},
		{"low", b.Low, &bar.Low},
		{"close", b.Close, &bar.Close},
	} {
		if *f.dst, err = price(inst, f.s); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	if bar.Volume, err = quantity(inst, b.Volume); err != nil {
		return errors.Wrap(err, "volume")
	}
	return r.ex.ProcessBar(ctx, bar)
}

func (r *runner) deltas(ctx context.Context, d *DeltasStep, ts int64) error {
	inst, err := r.instrument(d.Instrument)
	if err != nil {
		return err
	}
	deltas := make([]*types.BookDelta, 0, len(d.Deltas))
	for i, spec := range d.Deltas {
		delta := &types.BookDelta{InstrumentID: inst.ID, Sequence: uint64(i), TsEvent: ts, TsInit: ts}
		if delta.Action, err = bookAction(spec.Action); err != nil {
			return err
		}
		if delta.Action != types.BookActionClear {
			if delta.Order.Side, err = types.SideFromString(spec.Side); err != nil {
				return err
			}
			if delta.Order.Price, err = price(inst, spec.Price); err != nil {
				return errors.Wrap(err, "price")
			}
			if delta.Order.Size, err = quantity(inst, spec.Size); err != nil {
				return errors.Wrap(err, "size")
			}
		}
		deltas = append(deltas, delta)
	}
	return r.ex.ProcessOrderBookDeltas(ctx, types.NewBookDeltas(inst.ID, deltas))
}

func (r *runner) submit(ctx context.Context, s *SubmitStep, ts int64) error {
	inst, err := r.instrument(s.Instrument)
	if err != nil {
		return err
	}
	p := types.OrderParams{
		TraderID:      r.traderID,
		StrategyID:    r.strategyID,
		InstrumentID:  inst.ID,
		ClientOrderID: s.ID,
		PositionID:    s.PositionID,
		PostOnly:      s.PostOnly,
		ReduceOnly:    s.ReduceOnly,
		QuoteQuantity: s.QuoteQuantity,
		TimeInForce:   types.TimeInForceGTC,
		TsInit:        ts,
	}
	if p.Side, err = types.SideFromString(s.Side); err != nil {
		return err
	}
	if p.Type, err = types.OrderTypeFromString(s.Type); err != nil {
		return err
	}
	if len(s.TimeInForce) > 0 {
		if p.TimeInForce, err = types.TimeInForceFromString(s.TimeInForce); err != nil {
			return err
		}
	}
	if p.TimeInForce == types.TimeInForceGTD {
		p.ExpireTime = ts + s.ExpireAfter.Nanoseconds()
	}
	if p.Quantity, err = quantity(inst, s.Quantity); err != nil {
		return errors.Wrap(err, "quantity")
	}
	if p.Price, err = optPrice(inst, s.Price); err != nil {
		return errors.Wrap(err, "price")
	}
	if p.TriggerPrice, err = optPrice(inst, s.TriggerPrice); err != nil {
		return errors.Wrap(err, "trigger_price")
	}
	o, err := types.NewOrder(p)
	if err != nil {
		return err
	}
	return r.ex.Send(ctx, &types.SubmitOrder{
		TraderID:   r.traderID,
		StrategyID: r.strategyID,
		Order:      o,
		PositionID: s.PositionID,
		TsInit:     ts,
	})
}

func (r *runner) modify(ctx context.Context, m *ModifyStep, ts int64) error {
	inst, err := r.instrument(m.Instrument)
	if err != nil {
		return err
	}
	cmd := &types.ModifyOrder{
		TraderID:      r.traderID,
		StrategyID:    r.strategyID,
		InstrumentID:  inst.ID,
		ClientOrderID: m.ID,
		TsInit:        ts,
	}
	if len(m.Quantity) > 0 {
		qty, err := quantity(inst, m.Quantity)
		if err != nil {
			return errors.Wrap(err, "quantity")
		}
		cmd.Quantity = &qty
	}
	if cmd.Price, err = optPrice(inst, m.Price); err != nil {
		return errors.Wrap(err, "price")
	}
	if cmd.TriggerPrice, err = optPrice(inst, m.TriggerPrice); err != nil {
		return errors.Wrap(err, "trigger_price")
	}
	return r.ex.Send(ctx, cmd)
}
