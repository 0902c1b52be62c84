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

// Side of an order or a book entry.
type Side int32

const (
	SideUnspecified Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "NO_ORDER_SIDE"
	}
}

// Opposite returns the other side, an unspecified side stays unspecified.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnspecified
	}
}

func SideFromString(s string) (Side, error) {
	switch s {
	case "BUY", "buy", "Buy":
		return SideBuy, nil
	case "SELL", "sell", "Sell":
		return SideSell, nil
	case "", "NO_ORDER_SIDE":
		return SideUnspecified, nil
	}
	return SideUnspecified, ErrInvalidSide
}

type OrderType int32

const (
	OrderTypeUnspecified OrderType = iota
	OrderTypeMarket
	OrderTypeLimit
	OrderTypeMarketToLimit
	OrderTypeStopMarket
	OrderTypeStopLimit
	OrderTypeMarketIfTouched
	OrderTypeLimitIfTouched
)

var orderTypeStrings = map[OrderType]string{
	OrderTypeUnspecified:     "UNSPECIFIED",
	OrderTypeMarket:          "MARKET",
	OrderTypeLimit:           "LIMIT",
	OrderTypeMarketToLimit:   "MARKET_TO_LIMIT",
	OrderTypeStopMarket:      "STOP_MARKET",
	OrderTypeStopLimit:       "STOP_LIMIT",
	OrderTypeMarketIfTouched: "MARKET_IF_TOUCHED",
	OrderTypeLimitIfTouched:  "LIMIT_IF_TOUCHED",
}

func (t OrderType) String() string {
	if s, ok := orderTypeStrings[t]; ok {
		return s
	}
	return "UNKNOWN"
}

func OrderTypeFromString(s string) (OrderType, error) {
	for k, v := range orderTypeStrings {
		if v == s && k != OrderTypeUnspecified {
			return k, nil
		}
	}
	return OrderTypeUnspecified, ErrInvalidOrderType
}

// HasPrice is true for the order types carrying a limit price.
func (t OrderType) HasPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLimit || t == OrderTypeLimitIfTouched || t == OrderTypeMarketToLimit
}

// HasTriggerPrice is true for conditional order types.
func (t OrderType) HasTriggerPrice() bool {
	return t == OrderTypeStopMarket || t == OrderTypeStopLimit || t == OrderTypeMarketIfTouched || t == OrderTypeLimitIfTouched
}

// IsStop covers the orders triggering when the market moves through the
// trigger price (as opposed to the if-touched family).
func (t OrderType) IsStop() bool {
	return t == OrderTypeStopMarket || t == OrderTypeStopLimit
}

func (t OrderType) IsIfTouched() bool {
	return t == OrderTypeMarketIfTouched || t == OrderTypeLimitIfTouched
}

type TimeInForce int32

const (
	TimeInForceUnspecified TimeInForce = iota
	TimeInForceGTC
	TimeInForceIOC
	TimeInForceFOK
	TimeInForceGTD
	TimeInForceDay
)

var tifStrings = map[TimeInForce]string{
	TimeInForceUnspecified: "UNSPECIFIED",
	TimeInForceGTC:         "GTC",
	TimeInForceIOC:         "IOC",
	TimeInForceFOK:         "FOK",
	TimeInForceGTD:         "GTD",
	TimeInForceDay:         "DAY",
}

func (t TimeInForce) String() string {
	if s, ok := tifStrings[t]; ok {
		return s
	}
	return "UNKNOWN"
}

func TimeInForceFromString(s string) (TimeInForce, error) {
	for k, v := range tifStrings {
		if v == s && k != TimeInForceUnspecified {
			return k, nil
		}
	}
	return TimeInForceUnspecified, ErrInvalidTimeInForce
}

type OrderStatus int32

const (
	OrderStatusUnspecified OrderStatus = iota
	OrderStatusInitialized
	OrderStatusDenied
	OrderStatusSubmitted
	OrderStatusAccepted
	OrderStatusRejected
	OrderStatusCanceled
	OrderStatusExpired
	OrderStatusTriggered
	OrderStatusPendingUpdate
	OrderStatusPendingCancel
	OrderStatusPartiallyFilled
	OrderStatusFilled
)

var orderStatusStrings = map[OrderStatus]string{
	OrderStatusUnspecified:     "UNSPECIFIED",
	OrderStatusInitialized:     "INITIALIZED",
	OrderStatusDenied:          "DENIED",
	OrderStatusSubmitted:       "SUBMITTED",
	OrderStatusAccepted:        "ACCEPTED",
	OrderStatusRejected:        "REJECTED",
	OrderStatusCanceled:        "CANCELED",
	OrderStatusExpired:         "EXPIRED",
	OrderStatusTriggered:       "TRIGGERED",
	OrderStatusPendingUpdate:   "PENDING_UPDATE",
	OrderStatusPendingCancel:   "PENDING_CANCEL",
	OrderStatusPartiallyFilled: "PARTIALLY_FILLED",
	OrderStatusFilled:          "FILLED",
}

func (s OrderStatus) String() string {
	if v, ok := orderStatusStrings[s]; ok {
		return v
	}
	return "UNKNOWN"
}

func OrderStatusFromString(s string) (OrderStatus, error) {
	for k, v := range orderStatusStrings {
		if v == s && k != OrderStatusUnspecified {
			return k, nil
		}
	}
	return OrderStatusUnspecified, ErrInvalidOrderStatus
}

// IsTerminal returns true for the statuses admitting no further event.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDenied, OrderStatusRejected, OrderStatusCanceled, OrderStatusExpired, OrderStatusFilled:
		return true
	}
	return false
}

type LiquiditySide int32

const (
	LiquiditySideNone LiquiditySide = iota
	LiquiditySideMaker
	LiquiditySideTaker
)

func (l LiquiditySide) String() string {
	switch l {
	case LiquiditySideMaker:
		return "MAKER"
	case LiquiditySideTaker:
		return "TAKER"
	default:
		return "NO_LIQUIDITY_SIDE"
	}
}

type PositionSide int32

const (
	PositionSideUnspecified PositionSide = iota
	PositionSideFlat
	PositionSideLong
	PositionSideShort
)

func (p PositionSide) String() string {
	switch p {
	case PositionSideFlat:
		return "FLAT"
	case PositionSideLong:
		return "LONG"
	case PositionSideShort:
		return "SHORT"
	default:
		return "NO_POSITION_SIDE"
	}
}

// OmsType is the order management system type, it defines how position ids
// are assigned to fills.
type OmsType int32

const (
	OmsTypeUnspecified OmsType = iota
	OmsTypeNetting
	OmsTypeHedging
)

func (o OmsType) String() string {
	switch o {
	case OmsTypeNetting:
		return "NETTING"
	case OmsTypeHedging:
		return "HEDGING"
	default:
		return "UNSPECIFIED"
	}
}

func OmsTypeFromString(s string) (OmsType, error) {
	switch s {
	case "NETTING":
		return OmsTypeNetting, nil
	case "HEDGING":
		return OmsTypeHedging, nil
	}
	return OmsTypeUnspecified, ErrInvalidOmsType
}

type AccountType int32

const (
	AccountTypeUnspecified AccountType = iota
	AccountTypeCash
	AccountTypeMargin
)

func (a AccountType) String() string {
	switch a {
	case AccountTypeCash:
		return "CASH"
	case AccountTypeMargin:
		return "MARGIN"
	default:
		return "UNSPECIFIED"
	}
}

func AccountTypeFromString(s string) (AccountType, error) {
	switch s {
	case "CASH":
		return AccountTypeCash, nil
	case "MARGIN":
		return AccountTypeMargin, nil
	}
	return AccountTypeUnspecified, ErrInvalidAccountType
}

type BookType int32

const (
	BookTypeUnspecified BookType = iota
	// BookTypeL1 top of book only, driven by quotes and trades.
	BookTypeL1
	// BookTypeL2 market by price, driven by deltas.
	BookTypeL2
)

func (b BookType) String() string {
	switch b {
	case BookTypeL1:
		return "L1_MBP"
	case BookTypeL2:
		return "L2_MBP"
	default:
		return "UNSPECIFIED"
	}
}

func BookTypeFromString(s string) (BookType, error) {
	switch s {
	case "L1_MBP", "L1":
		return BookTypeL1, nil
	case "L2_MBP", "L2":
		return BookTypeL2, nil
	}
	return BookTypeUnspecified, ErrInvalidBookType
}

type AggressorSide int32

const (
	AggressorSideNone AggressorSide = iota
	AggressorSideBuyer
	AggressorSideSeller
)

func (a AggressorSide) String() string {
	switch a {
	case AggressorSideBuyer:
		return "BUYER"
	case AggressorSideSeller:
		return "SELLER"
	default:
		return "NO_AGGRESSOR"
	}
}

type BookAction int32

const (
	BookActionUnspecified BookAction = iota
	BookActionAdd
	BookActionUpdate
	BookActionDelete
	BookActionClear
)

func (b BookAction) String() string {
	switch b {
	case BookActionAdd:
		return "ADD"
	case BookActionUpdate:
		return "UPDATE"
	case BookActionDelete:
		return "DELETE"
	case BookActionClear:
		return "CLEAR"
	default:
		return "UNSPECIFIED"
	}
}

type MarketStatus int32

const (
	MarketStatusOpen MarketStatus = iota
	MarketStatusClosed
	MarketStatusPaused
	MarketStatusSuspended
)

func (m MarketStatus) String() string {
	switch m {
	case MarketStatusOpen:
		return "OPEN"
	case MarketStatusClosed:
		return "CLOSED"
	case MarketStatusPaused:
		return "PAUSED"
	case MarketStatusSuspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

type MarketStatusAction int32

const (
	MarketStatusActionNone MarketStatusAction = iota
	MarketStatusActionPreOpen
	MarketStatusActionTrading
	MarketStatusActionPause
	MarketStatusActionSuspend
	MarketStatusActionHalt
	MarketStatusActionClose
)

var marketStatusActionStrings = map[MarketStatusAction]string{
	MarketStatusActionNone:    "NONE",
	MarketStatusActionPreOpen: "PRE_OPEN",
	MarketStatusActionTrading: "TRADING",
	MarketStatusActionPause:   "PAUSE",
	MarketStatusActionSuspend: "SUSPEND",
	MarketStatusActionHalt:    "HALT",
	MarketStatusActionClose:   "CLOSE",
}

func (m MarketStatusAction) String() string {
	if s, ok := marketStatusActionStrings[m]; ok {
		return s
	}
	return "UNKNOWN"
}

func MarketStatusActionFromString(s string) (MarketStatusAction, error) {
	for k, v := range marketStatusActionStrings {
		if v == s {
			return k, nil
		}
	}
	return MarketStatusActionNone, ErrInvalidMarketStatusAction
}

// PriceType of the bars.
type PriceType int32

const (
	PriceTypeUnspecified PriceType = iota
	PriceTypeBid
	PriceTypeAsk
	PriceTypeMid
	PriceTypeLast
)

func (p PriceType) String() string {
	switch p {
	case PriceTypeBid:
		return "BID"
	case PriceTypeAsk:
		return "ASK"
	case PriceTypeMid:
		return "MID"
	case PriceTypeLast:
		return "LAST"
	default:
		return "UNSPECIFIED"
	}
}

func PriceTypeFromString(s string) (PriceType, error) {
	switch s {
	case "BID":
		return PriceTypeBid, nil
	case "ASK":
		return PriceTypeAsk, nil
	case "MID":
		return PriceTypeMid, nil
	case "LAST":
		return PriceTypeLast, nil
	}
	return PriceTypeUnspecified, ErrInvalidPriceType
}

type BarAggregation int32

const (
	BarAggregationUnspecified BarAggregation = iota
	BarAggregationMillisecond
	BarAggregationSecond
	BarAggregationMinute
	BarAggregationHour
	BarAggregationDay
	BarAggregationWeek
	BarAggregationMonth
)

func (b BarAggregation) String() string {
	switch b {
	case BarAggregationMillisecond:
		return "MILLISECOND"
	case BarAggregationSecond:
		return "SECOND"
	case BarAggregationMinute:
		return "MINUTE"
	case BarAggregationHour:
		return "HOUR"
	case BarAggregationDay:
		return "DAY"
	case BarAggregationWeek:
		return "WEEK"
	case BarAggregationMonth:
		return "MONTH"
	default:
		return "UNSPECIFIED"
	}
}

func BarAggregationFromString(s string) (BarAggregation, error) {
	for b := BarAggregationMillisecond; b <= BarAggregationMonth; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return BarAggregationUnspecified, ErrInvalidBarAggregation
}

type AggregationSource int32

const (
	AggregationSourceExternal AggregationSource = iota
	AggregationSourceInternal
)
