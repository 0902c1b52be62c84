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

package types

import (
	"fmt"
	"time"

	"code.vegaprotocol.io/simex/libs/num"
)

type QuoteTick struct {
	InstrumentID string
	BidPrice     *num.Uint
	AskPrice     *num.Uint
	BidSize      uint64
	AskSize      uint64
	TsEvent      int64
	TsInit       int64
}

func (q *QuoteTick) String() string {
	return fmt.Sprintf("QuoteTick(%s,%s,%s,%d,%d,%d)", q.InstrumentID, q.BidPrice, q.AskPrice, q.BidSize, q.AskSize, q.TsEvent)
}

type TradeTick struct {
	InstrumentID  string
	Price         *num.Uint
	Size          uint64
	AggressorSide AggressorSide
	TradeID       string
	TsEvent       int64
	TsInit        int64
}

func (t *TradeTick) String() string {
	return fmt.Sprintf("TradeTick(%s,%s,%d,%s,%s,%d)", t.InstrumentID, t.Price, t.Size, t.AggressorSide, t.TradeID, t.TsEvent)
}

// BarSpec describes how the bar was aggregated.
type BarSpec struct {
	Step        uint64
	Aggregation BarAggregation
	PriceType   PriceType
}

// Duration of a bar, zero for monthly bars which have no fixed length.
func (s BarSpec) Duration() time.Duration {
	var unit time.Duration
	switch s.Aggregation {
	case BarAggregationMillisecond:
		unit = time.Millisecond
	case BarAggregationSecond:
		unit = time.Second
	case BarAggregationMinute:
		unit = time.Minute
	case BarAggregationHour:
		unit = time.Hour
	case BarAggregationDay:
		unit = 24 * time.Hour
	case BarAggregationWeek:
		unit = 7 * 24 * time.Hour
	default:
		return 0
	}
	return time.Duration(s.Step) * unit
}

type BarType struct {
	InstrumentID string
	Spec         BarSpec
	Source       AggregationSource
}

func (b BarType) String() string {
	src := "EXTERNAL"
	if b.Source == AggregationSourceInternal {
		src = "INTERNAL"
	}
	return fmt.Sprintf("%s-%d-%s-%s-%s", b.InstrumentID, b.Spec.Step, b.Spec.Aggregation, b.Spec.PriceType, src)
}

type Bar struct {
	BarType BarType
	Open    *num.Uint
	High    *num.Uint
	Low     *num.Uint
	Close   *num.Uint
	Volume  uint64
	TsEvent int64
	TsInit  int64
}

func (b *Bar) String() string {
	return fmt.Sprintf("Bar(%s,%s,%s,%s,%s,%d,%d)", b.BarType, b.Open, b.High, b.Low, b.Close, b.Volume, b.TsEvent)
}

// BookOrder is a single entry of a depth book, on market by price books
// OrderID identifies the level.
type BookOrder struct {
	Side    Side
	Price   *num.Uint
	Size    uint64
	OrderID uint64
}

type BookDelta struct {
	InstrumentID string
	Action       BookAction
	Order        BookOrder
	Flags        uint8
	Sequence     uint64
	TsEvent      int64
	TsInit       int64
}

func (d *BookDelta) String() string {
	return fmt.Sprintf("OrderBookDelta(%s,%s,%s,%v,%d,%d)", d.InstrumentID, d.Action, d.Order.Side, d.Order.Price, d.Order.Size, d.Sequence)
}

type BookDeltas struct {
	InstrumentID string
	Deltas       []*BookDelta
	TsEvent      int64
}

// NewBookDeltas takes the last delta timestamp as the batch timestamp.
func NewBookDeltas(instrumentID string, deltas []*BookDelta) *BookDeltas {
	var ts int64
	if len(deltas) > 0 {
		ts = deltas[len(deltas)-1].TsEvent
	}
	return &BookDeltas{InstrumentID: instrumentID, Deltas: deltas, TsEvent: ts}
}
