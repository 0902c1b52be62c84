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

package positions

import (
	"encoding/binary"
	"fmt"
	"sort"

	"code.vegaprotocol.io/simex/libs/crypto"
	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/pkg/errors"
)

var (
	ErrNotAFill            = errors.New("event is not a fill")
	ErrDuplicateTradeID    = errors.New("trade id already applied to the position")
	ErrInstrumentMismatch  = errors.New("fill instrument does not match the position")
	ErrPositionNotFound    = errors.New("position not found")
	ErrInvalidOmsType      = errors.New("invalid oms type")
	ErrReduceOnlyWouldFlip = errors.New("reduce only fill would flip the position")
)

// Position tracks the exposure built by the fills of one position id.
// Average prices are human prices, quantities are raw instrument units.
type Position struct {
	inst *types.Instrument

	id             string
	traderID       string
	strategyID     string
	accountID      string
	openingOrderID string
	closingOrderID string

	entry     types.Side
	side      types.PositionSide
	signedQty int64
	quantity  uint64
	peakQty   uint64
	buyQty    uint64
	sellQty   uint64
	lastQty   uint64
	lastPx    *num.Uint

	avgPxOpen      num.Decimal
	avgPxClose     num.Decimal
	hasClose       bool
	realizedReturn num.Decimal
	realizedPnL    num.Decimal
	// currency -> accumulated commission
	commissions map[string]num.Decimal
	tradeIDs    map[string]struct{}

	tsOpened   int64
	tsLast     int64
	tsClosed   int64
	durationNs int64
}

// NewPosition opens a position from its first fill.
func NewPosition(inst *types.Instrument, id string, e *types.OrderEvent) (*Position, error) {
	p := &Position{
		inst:           inst,
		id:             id,
		traderID:       e.TraderID,
		strategyID:     e.StrategyID,
		accountID:      e.AccountID,
		side:           types.PositionSideFlat,
		avgPxOpen:      num.DecimalZero(),
		avgPxClose:     num.DecimalZero(),
		realizedReturn: num.DecimalZero(),
		realizedPnL:    num.DecimalZero(),
		commissions:    map[string]num.Decimal{},
		tradeIDs:       map[string]struct{}{},
	}
	if err := p.Apply(e); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Position) ID() string                       { return p.id }
func (p *Position) InstrumentID() string             { return p.inst.ID }
func (p *Position) StrategyID() string               { return p.strategyID }
func (p *Position) Side() types.PositionSide         { return p.side }
func (p *Position) Entry() types.Side                { return p.entry }
func (p *Position) SignedQty() int64                 { return p.signedQty }
func (p *Position) Quantity() uint64                 { return p.quantity }
func (p *Position) PeakQty() uint64                  { return p.peakQty }
func (p *Position) AvgPxOpen() num.Decimal           { return p.avgPxOpen }
func (p *Position) AvgPxClose() num.Decimal          { return p.avgPxClose }
func (p *Position) RealizedReturn() num.Decimal      { return p.realizedReturn }
func (p *Position) OpeningOrderID() string           { return p.openingOrderID }
func (p *Position) ClosingOrderID() string           { return p.closingOrderID }
func (p *Position) IsLong() bool                     { return p.side == types.PositionSideLong }
func (p *Position) IsShort() bool                    { return p.side == types.PositionSideShort }
func (p *Position) IsOpen() bool                     { return p.side != types.PositionSideFlat }
func (p *Position) IsClosed() bool                   { return p.side == types.PositionSideFlat }
func (p *Position) SettlementCurrency() string       { return p.inst.CostCurrency() }
func (p *Position) RealizedPnL() types.Money         { return types.NewMoney(p.realizedPnL, p.inst.CostCurrency()) }
func (p *Position) IsOppositeSide(s types.Side) bool { return p.entry != s }

// Commissions returns the accumulated commissions sorted by currency.
func (p *Position) Commissions() []types.Money {
	ccys := make([]string, 0, len(p.commissions))
	for c := range p.commissions {
		ccys = append(ccys, c)
	}
	sort.Strings(ccys)
	out := make([]types.Money, 0, len(ccys))
	for _, c := range ccys {
		out = append(out, types.NewMoney(p.commissions[c], c))
	}
	return out
}

// Apply applies a fill to the position, a flat position is reset first.
func (p *Position) Apply(e *types.OrderEvent) error {
	f := e.Fill
	if e.Type != types.OrderEventFilled || f == nil {
		return ErrNotAFill
	}
	if e.InstrumentID != p.inst.ID {
		return errors.Wrapf(ErrInstrumentMismatch, "%s on %s", e.InstrumentID, p.inst.ID)
	}
	if _, ok := p.tradeIDs[f.TradeID]; ok {
		return errors.Wrap(ErrDuplicateTradeID, f.TradeID)
	}

	if p.side == types.PositionSideFlat {
		p.reset(e)
	}
	p.tradeIDs[f.TradeID] = struct{}{}

	if len(f.Commission.Currency) > 0 {
		acc, ok := p.commissions[f.Commission.Currency]
		if !ok {
			acc = num.DecimalZero()
		}
		p.commissions[f.Commission.Currency] = acc.Add(f.Commission.Amount)
	}

	realized := num.DecimalZero()
	if f.Commission.Currency == p.inst.CostCurrency() {
		realized = f.Commission.Amount.Neg()
	}

	px := p.inst.PriceToDecimal(f.LastPx)
	qty := p.inst.QuantityToDecimal(f.LastQty)

	opening := (f.Side == types.SideBuy && p.signedQty > 0) || (f.Side == types.SideSell && p.signedQty < 0)
	closing := (f.Side == types.SideBuy && p.signedQty < 0) || (f.Side == types.SideSell && p.signedQty > 0)
	switch {
	case opening:
		p.avgPxOpen = avgPx(p.inst.QuantityToDecimal(p.quantity), p.avgPxOpen, px, qty)
	case closing:
		p.avgPxClose = p.closePx(px, qty)
		p.hasClose = true
		p.realizedReturn = p.calculateReturn(p.avgPxOpen, p.avgPxClose)
		realized = realized.Add(p.pnlRaw(p.avgPxOpen, px, qty))
	}
	p.realizedPnL = p.realizedPnL.Add(realized)

	if f.Side == types.SideBuy {
		p.signedQty += int64(f.LastQty)
		p.buyQty += f.LastQty
	} else {
		p.signedQty -= int64(f.LastQty)
		p.sellQty += f.LastQty
	}

	p.quantity = abs(p.signedQty)
	if p.quantity > p.peakQty {
		p.peakQty = p.quantity
	}
	p.lastQty = f.LastQty
	p.lastPx = f.LastPx.Clone()

	switch {
	case p.signedQty > 0:
		p.entry = types.SideBuy
		p.side = types.PositionSideLong
	case p.signedQty < 0:
		p.entry = types.SideSell
		p.side = types.PositionSideShort
	default:
		p.side = types.PositionSideFlat
		p.closingOrderID = e.ClientOrderID
		p.tsClosed = e.TsEvent
		p.durationNs = p.tsClosed - p.tsOpened
	}
	p.tsLast = e.TsEvent
	return nil
}

func (p *Position) reset(e *types.OrderEvent) {
	p.tradeIDs = map[string]struct{}{}
	p.commissions = map[string]num.Decimal{}
	p.buyQty, p.sellQty, p.peakQty = 0, 0, 0
	p.openingOrderID = e.ClientOrderID
	p.closingOrderID = ""
	p.entry = e.Fill.Side
	p.tsOpened = e.TsEvent
	p.tsClosed = 0
	p.durationNs = 0
	p.avgPxOpen = p.inst.PriceToDecimal(e.Fill.LastPx)
	p.avgPxClose = num.DecimalZero()
	p.hasClose = false
	p.realizedReturn = num.DecimalZero()
	p.realizedPnL = num.DecimalZero()
}

func avgPx(qty, avg, lastPx, lastQty num.Decimal) num.Decimal {
	total := qty.Add(lastQty)
	if total.IsZero() {
		return lastPx
	}
	return avg.Mul(qty).Add(lastPx.Mul(lastQty)).Div(total)
}

func (p *Position) closePx(px, qty num.Decimal) num.Decimal {
	if !p.hasClose {
		return px
	}
	closed := p.sellQty
	if p.side == types.PositionSideShort {
		closed = p.buyQty
	}
	return avgPx(p.inst.QuantityToDecimal(closed), p.avgPxClose, px, qty)
}

func (p *Position) points(open, close num.Decimal) num.Decimal {
	switch p.side {
	case types.PositionSideLong:
		return close.Sub(open)
	case types.PositionSideShort:
		return open.Sub(close)
	}
	return num.DecimalZero()
}

func (p *Position) pointsInverse(open, close num.Decimal) num.Decimal {
	if open.IsZero() || close.IsZero() {
		return num.DecimalZero()
	}
	one := num.DecimalOne()
	invOpen, invClose := one.Div(open), one.Div(close)
	switch p.side {
	case types.PositionSideLong:
		return invOpen.Sub(invClose)
	case types.PositionSideShort:
		return invClose.Sub(invOpen)
	}
	return num.DecimalZero()
}

func (p *Position) calculateReturn(open, close num.Decimal) num.Decimal {
	if open.IsZero() {
		return num.DecimalZero()
	}
	return p.points(open, close).Div(open)
}

// pnlRaw is the P&L of qty, clipped to the open quantity, moving from
// open to close.
func (p *Position) pnlRaw(open, close, qty num.Decimal) num.Decimal {
	q := num.MinD(qty, p.inst.QuantityToDecimal(p.quantity))
	if p.inst.IsInverse {
		return q.Mul(p.inst.Multiplier).Mul(p.pointsInverse(open, close))
	}
	return q.Mul(p.inst.Multiplier).Mul(p.points(open, close))
}

// ClosingPnL is the trading P&L the fill would realize against the current
// position, commission excluded. Opening fills realize nothing.
func (p *Position) ClosingPnL(f *types.Fill) num.Decimal {
	if f == nil || p.IsClosed() || !p.IsOppositeSide(f.Side) {
		return num.DecimalZero()
	}
	px := p.inst.PriceToDecimal(f.LastPx)
	return p.pnlRaw(p.avgPxOpen, px, p.inst.QuantityToDecimal(f.LastQty))
}

// UnrealizedPnL of the open quantity marked at last.
func (p *Position) UnrealizedPnL(last *num.Uint) types.Money {
	ccy := p.inst.CostCurrency()
	if p.side == types.PositionSideFlat || last == nil {
		return types.ZeroMoney(ccy)
	}
	px := p.inst.PriceToDecimal(last)
	return types.NewMoney(p.pnlRaw(p.avgPxOpen, px, p.inst.QuantityToDecimal(p.quantity)), ccy)
}

// TotalPnL is realized plus unrealized P&L.
func (p *Position) TotalPnL(last *num.Uint) types.Money {
	return p.RealizedPnL().Add(p.UnrealizedPnL(last))
}

// NotionalValue of the open quantity at last, in the base currency for
// inverse instruments.
func (p *Position) NotionalValue(last *num.Uint) types.Money {
	ccy := p.inst.QuoteCurrency
	if p.inst.IsInverse {
		ccy = p.inst.BaseCurrency
	}
	return types.NewMoney(p.inst.NotionalValue(p.quantity, last), ccy)
}

// Snapshot returns the state of the position for an event of type t.
func (p *Position) Snapshot(t types.PositionEventType, last *num.Uint) types.PositionSnapshot {
	lastPx := num.DecimalZero()
	if p.lastPx != nil {
		lastPx = p.inst.PriceToDecimal(p.lastPx)
	}
	return types.PositionSnapshot{
		Type:           t,
		PositionID:     p.id,
		TraderID:       p.traderID,
		StrategyID:     p.strategyID,
		AccountID:      p.accountID,
		InstrumentID:   p.inst.ID,
		OpeningOrderID: p.openingOrderID,
		ClosingOrderID: p.closingOrderID,
		Entry:          p.entry,
		Side:           p.side,
		SignedQty:      p.signedQty,
		Quantity:       p.quantity,
		PeakQty:        p.peakQty,
		LastQty:        p.lastQty,
		LastPx:         lastPx,
		Currency:       p.inst.CostCurrency(),
		AvgPxOpen:      p.avgPxOpen,
		AvgPxClose:     p.avgPxClose,
		RealizedReturn: p.realizedReturn,
		RealizedPnL:    p.RealizedPnL(),
		UnrealizedPnL:  p.UnrealizedPnL(last),
		DurationNs:     p.durationNs,
		TsOpened:       p.tsOpened,
		TsClosed:       p.tsClosed,
		TsEvent:        p.tsLast,
	}
}

// Hash of the position state, used to compare replays.
func (p *Position) Hash() []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, []byte(p.id)...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(p.signedQty))
	buf = binary.BigEndian.AppendUint64(buf, p.peakQty)
	buf = append(buf, []byte(p.avgPxOpen.String())...)
	buf = append(buf, []byte(p.realizedPnL.String())...)
	return crypto.Hash(buf)
}

func (p *Position) String() string {
	return fmt.Sprintf("Position(%s %s %s %d, avg_px_open=%s, realized_pnl=%s, id=%s)",
		p.side, p.inst.ID, p.entry, p.quantity, p.avgPxOpen, p.RealizedPnL(), p.id)
}

func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
