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

// Position is emitted for every fill applied to a position, a flip
// produces a closed event followed by an opened one.
type Position struct {
	*Base
	p types.PositionSnapshot
}

func NewPositionEvent(ctx context.Context, p types.PositionSnapshot) *Position {
	return &Position{
		Base: newBase(ctx, PositionEvent, p.TsEvent, Topic{
			TraderID:     p.TraderID,
			StrategyID:   p.StrategyID,
			InstrumentID: p.InstrumentID,
		}),
		p: p,
	}
}

func (p Position) PositionEventType() types.PositionEventType {
	return p.p.Type
}

func (p Position) PositionID() string {
	return p.p.PositionID
}

func (p Position) Snapshot() types.PositionSnapshot {
	return p.p
}

func (p Position) String() string {
	return p.p.String()
}
