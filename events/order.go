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

package events

import (
	"context"

	"code.vegaprotocol.io/simex/types"
)

type Order struct {
	*Base
	e *types.OrderEvent
}

func NewOrderEvent(ctx context.Context, e *types.OrderEvent) *Order {
	return &Order{
		Base: newBase(ctx, OrderEvent, e.TsEvent, Topic{
			TraderID:     e.TraderID,
			StrategyID:   e.StrategyID,
			InstrumentID: e.InstrumentID,
		}),
		e: e,
	}
}

func (o Order) OrderEventType() types.OrderEventType {
	return o.e.Type
}

func (o Order) ClientOrderID() string {
	return o.e.ClientOrderID
}

func (o Order) InstrumentID() string {
	return o.e.InstrumentID
}

// OrderEvent returns a copy of the payload.
func (o *Order) OrderEvent() *types.OrderEvent {
	return o.e.Clone()
}

func (o Order) String() string {
	return o.e.String()
}
