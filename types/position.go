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

	"code.vegaprotocol.io/simex/libs/num"
)

type PositionEventType int32

const (
	PositionEventOpened PositionEventType = iota
	PositionEventChanged
	PositionEventClosed
)

func (p PositionEventType) String() string {
	switch p {
	case PositionEventOpened:
		return "PositionOpened"
	case PositionEventChanged:
		return "PositionChanged"
	case PositionEventClosed:
		return "PositionClosed"
	default:
		return "PositionUnknown"
	}
}

// PositionSnapshot is the state of a position after a fill was applied,
// prices are decimal values at instrument precision.
type PositionSnapshot struct {
	Type           PositionEventType
	PositionID     string
	TraderID       string
	StrategyID     string
	AccountID      string
	InstrumentID   string
	OpeningOrderID string
	ClosingOrderID string
	Entry          Side
	Side           PositionSide
	SignedQty      int64
	Quantity       uint64
	PeakQty        uint64
	LastQty        uint64
	LastPx         num.Decimal
	Currency       string
	AvgPxOpen      num.Decimal
	AvgPxClose     num.Decimal
	RealizedReturn num.Decimal
	RealizedPnL    Money
	UnrealizedPnL  Money
	DurationNs     int64
	TsOpened       int64
	TsClosed       int64
	TsEvent        int64
}

func (p *PositionSnapshot) String() string {
	return fmt.Sprintf("%s(%s %s %s signed_qty=%d avg_px_open=%s realized_pnl=%s)",
		p.Type, p.PositionID, p.InstrumentID, p.Side, p.SignedQty, p.AvgPxOpen, p.RealizedPnL)
}
