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

import "github.com/pkg/errors"

var (
	ErrInvalidSide               = errors.New("invalid order side")
	ErrInvalidOrderType          = errors.New("invalid order type")
	ErrInvalidTimeInForce        = errors.New("invalid time in force")
	ErrInvalidOrderStatus        = errors.New("invalid order status")
	ErrInvalidOmsType            = errors.New("invalid oms type")
	ErrInvalidAccountType        = errors.New("invalid account type")
	ErrInvalidBookType           = errors.New("invalid book type")
	ErrInvalidPriceType          = errors.New("invalid price type")
	ErrInvalidBarAggregation     = errors.New("invalid bar aggregation")
	ErrInvalidMarketStatusAction = errors.New("invalid market status action")

	ErrMissingClientOrderID       = errors.New("missing client order id")
	ErrMissingInstrumentID        = errors.New("missing instrument id")
	ErrZeroQuantity               = errors.New("order quantity must be positive")
	ErrMissingPrice               = errors.New("order type requires a price")
	ErrMissingTriggerPrice        = errors.New("order type requires a trigger price")
	ErrUnexpectedPrice            = errors.New("order type does not accept a price")
	ErrUnexpectedTriggerPrice     = errors.New("order type does not accept a trigger price")
	ErrMissingExpireTime          = errors.New("GTD order requires an expire time")
	ErrUnexpectedExpireTime       = errors.New("only GTD orders accept an expire time")
	ErrPostOnlyNotSupported       = errors.New("post only is only valid on passive limit orders")
	ErrInvalidStateTransition     = errors.New("invalid order state transition")
	ErrOrderAlreadyInitialized    = errors.New("order already initialized")
	ErrOrderEventMismatch         = errors.New("event does not belong to this order")
	ErrOverfill                   = errors.New("fill quantity exceeds order quantity")
	ErrUpdateBelowFilled          = errors.New("updated quantity below filled quantity")
	ErrNoPreviousStatus           = errors.New("no previous status to restore")
	ErrInvalidInstrument          = errors.New("invalid instrument")
	ErrInvalidPricePrecision      = errors.New("price is not a multiple of the price increment")
	ErrInvalidQuantityPrecision   = errors.New("quantity is not a multiple of the size increment")
	ErrPriceNotRepresentable      = errors.New("price cannot be represented at instrument precision")
	ErrQuantityNotRepresentable   = errors.New("quantity cannot be represented at instrument precision")
	ErrUnknownCommand             = errors.New("unknown trading command")
	ErrCommandInstrumentMismatch  = errors.New("command instrument does not match the order instrument")
	ErrMoneyCurrencyMismatch      = errors.New("money currencies do not match")
	ErrNegativeBalance            = errors.New("balance total cannot be negative")
	ErrLockedExceedsTotal         = errors.New("locked balance exceeds total")
)
