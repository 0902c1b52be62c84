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

type CommandType int32

const (
	CommandTypeSubmitOrder CommandType = iota
	CommandTypeModifyOrder
	CommandTypeCancelOrder
	CommandTypeCancelAllOrders
	CommandTypeBatchCancelOrders
)

func (c CommandType) String() string {
	switch c {
	case CommandTypeSubmitOrder:
		return "SubmitOrder"
	case CommandTypeModifyOrder:
		return "ModifyOrder"
	case CommandTypeCancelOrder:
		return "CancelOrder"
	case CommandTypeCancelAllOrders:
		return "CancelAllOrders"
	case CommandTypeBatchCancelOrders:
		return "BatchCancelOrders"
	default:
		return "UnknownCommand"
	}
}

// TradingCommand is implemented by every command the venue accepts.
type TradingCommand interface {
	CommandType() CommandType
	GetInstrumentID() string
	// ClientOrderIDs lists the orders the command acts on, empty for cancel
	// all.
	ClientOrderIDs() []string
	GetTsInit() int64
}

type SubmitOrder struct {
	TraderID   string
	StrategyID string
	Order      *Order
	PositionID string
	TsInit     int64
}

func (c *SubmitOrder) CommandType() CommandType { return CommandTypeSubmitOrder }
func (c *SubmitOrder) GetInstrumentID() string  { return c.Order.InstrumentID }
func (c *SubmitOrder) ClientOrderIDs() []string { return []string{c.Order.ClientOrderID} }
func (c *SubmitOrder) GetTsInit() int64         { return c.TsInit }

func (c *SubmitOrder) String() string {
	return fmt.Sprintf("SubmitOrder(%s)", c.Order)
}

// ModifyOrder, nil fields are left unchanged.
type ModifyOrder struct {
	TraderID      string
	StrategyID    string
	InstrumentID  string
	ClientOrderID string
	VenueOrderID  string
	Quantity      *uint64
	Price         *num.Uint
	TriggerPrice  *num.Uint
	TsInit        int64
}

func (c *ModifyOrder) CommandType() CommandType { return CommandTypeModifyOrder }
func (c *ModifyOrder) GetInstrumentID() string  { return c.InstrumentID }
func (c *ModifyOrder) ClientOrderIDs() []string { return []string{c.ClientOrderID} }
func (c *ModifyOrder) GetTsInit() int64         { return c.TsInit }

func (c *ModifyOrder) String() string {
	var qty interface{}
	if c.Quantity != nil {
		qty = *c.Quantity
	}
	return fmt.Sprintf("ModifyOrder(instrument_id=%s, client_order_id=%s, quantity=%v, price=%v, trigger_price=%v)",
		c.InstrumentID, c.ClientOrderID, qty, c.Price, c.TriggerPrice)
}

type CancelOrder struct {
	TraderID      string
	StrategyID    string
	InstrumentID  string
	ClientOrderID string
	VenueOrderID  string
	TsInit        int64
}

func (c *CancelOrder) CommandType() CommandType { return CommandTypeCancelOrder }
func (c *CancelOrder) GetInstrumentID() string  { return c.InstrumentID }
func (c *CancelOrder) ClientOrderIDs() []string { return []string{c.ClientOrderID} }
func (c *CancelOrder) GetTsInit() int64         { return c.TsInit }

func (c *CancelOrder) String() string {
	return fmt.Sprintf("CancelOrder(instrument_id=%s, client_order_id=%s)", c.InstrumentID, c.ClientOrderID)
}

// CancelAllOrders cancels the open orders of the instrument, restricted to
// one side unless Side is unspecified.
type CancelAllOrders struct {
	TraderID     string
	StrategyID   string
	InstrumentID string
	Side         Side
	TsInit       int64
}

func (c *CancelAllOrders) CommandType() CommandType { return CommandTypeCancelAllOrders }
func (c *CancelAllOrders) GetInstrumentID() string  { return c.InstrumentID }
func (c *CancelAllOrders) ClientOrderIDs() []string { return nil }
func (c *CancelAllOrders) GetTsInit() int64         { return c.TsInit }

func (c *CancelAllOrders) String() string {
	return fmt.Sprintf("CancelAllOrders(instrument_id=%s, side=%s)", c.InstrumentID, c.Side)
}

type BatchCancelOrders struct {
	TraderID     string
	StrategyID   string
	InstrumentID string
	Cancels      []*CancelOrder
	TsInit       int64
}

func (c *BatchCancelOrders) CommandType() CommandType { return CommandTypeBatchCancelOrders }
func (c *BatchCancelOrders) GetInstrumentID() string  { return c.InstrumentID }
func (c *BatchCancelOrders) GetTsInit() int64         { return c.TsInit }

func (c *BatchCancelOrders) ClientOrderIDs() []string {
	ids := make([]string, 0, len(c.Cancels))
	for _, cc := range c.Cancels {
		ids = append(ids, cc.ClientOrderID)
	}
	return ids
}

func (c *BatchCancelOrders) String() string {
	return fmt.Sprintf("BatchCancelOrders(instrument_id=%s, cancels=%d)", c.InstrumentID, len(c.Cancels))
}
