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

package matching

import (
	"time"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"
)

// ProcessBar executes the resting orders against the bar prices, top of
// book engines only. Of the external bars of an instrument only the ones
// with the shortest period drive the execution.
func (e *Engine) ProcessBar(b *types.Bar) error {
	if !e.BarExecution.Get() || e.bookType != types.BookTypeL1 {
		return nil
	}
	bt := b.BarType
	if bt.Source == types.AggregationSourceInternal || bt.Spec.Aggregation == types.BarAggregationMonth {
		return nil
	}

	delta := bt.Spec.Duration()
	if e.executionBarType == nil {
		e.setExecutionBarType(bt, delta)
	} else if !e.isExecutionBar(bt) {
		if delta >= e.executionBarDelta {
			return nil
		}
		e.setExecutionBarType(bt, delta)
	}

	switch bt.Spec.PriceType {
	case types.PriceTypeLast, types.PriceTypeMid:
		return e.processTradeBar(b)
	case types.PriceTypeBid:
		e.lastBarBid = b
		return e.processQuoteBar()
	case types.PriceTypeAsk:
		e.lastBarAsk = b
		return e.processQuoteBar()
	}
	return nil
}

func (e *Engine) setExecutionBarType(bt types.BarType, delta time.Duration) {
	cpy := bt
	e.executionBarType = &cpy
	e.executionBarDelta = delta
	e.lastBarBid, e.lastBarAsk = nil, nil
}

// bid and ask bars of the same period pair up.
func (e *Engine) isExecutionBar(bt types.BarType) bool {
	x := e.executionBarType
	return x.InstrumentID == bt.InstrumentID &&
		x.Spec.Step == bt.Spec.Step &&
		x.Spec.Aggregation == bt.Spec.Aggregation &&
		x.Source == bt.Source
}

func (e *Engine) barTickSize(volume uint64) uint64 {
	size := volume / 4
	if size == 0 {
		size = e.inst.SizeIncrement
	}
	if size == 0 {
		size = 1
	}
	return size
}

// processTradeBar replays the bar as up to four trades, open high low then
// close, skipping the prices the market is already at.
func (e *Engine) processTradeBar(b *types.Bar) error {
	size := e.barTickSize(b.Volume)
	trade := func(px *num.Uint) error {
		t := &types.TradeTick{
			InstrumentID:  e.inst.ID,
			Price:         px,
			Size:          size,
			AggressorSide: types.AggressorSideNone,
			TsEvent:       b.TsEvent,
			TsInit:        b.TsInit,
		}
		if err := e.book.UpdateTradeTick(t); err != nil {
			return err
		}
		e.iterate(b.TsEvent)
		e.core.SetLast(px)
		return nil
	}

	if !e.core.IsLastInitialized() || !b.Open.EQ(e.core.Last()) {
		if err := trade(b.Open); err != nil {
			return err
		}
	}
	if b.High.GT(e.core.Last()) {
		if err := trade(b.High); err != nil {
			return err
		}
	}
	if b.Low.LT(e.core.Last()) {
		if err := trade(b.Low); err != nil {
			return err
		}
	}
	if !b.Close.EQ(e.core.Last()) {
		return trade(b.Close)
	}
	return nil
}

// processQuoteBar waits for the bid and ask bars of the same period then
// replays them as four quotes.
func (e *Engine) processQuoteBar() error {
	bid, ask := e.lastBarBid, e.lastBarAsk
	if bid == nil || ask == nil || bid.TsEvent != ask.TsEvent {
		return nil
	}
	defer func() {
		e.lastBarBid, e.lastBarAsk = nil, nil
	}()

	bidSize, askSize := e.barTickSize(bid.Volume), e.barTickSize(ask.Volume)
	quotes := [][2]*num.Uint{
		{bid.Open, ask.Open},
		{bid.High, ask.High},
		{bid.Low, ask.Low},
		{bid.Close, ask.Close},
	}
	for _, q := range quotes {
		tick := &types.QuoteTick{
			InstrumentID: e.inst.ID,
			BidPrice:     q[0],
			AskPrice:     q[1],
			BidSize:      bidSize,
			AskSize:      askSize,
			TsEvent:      bid.TsEvent,
			TsInit:       bid.TsInit,
		}
		if err := e.book.UpdateQuoteTick(tick); err != nil {
			return err
		}
		e.iterate(bid.TsEvent)
	}
	return nil
}
