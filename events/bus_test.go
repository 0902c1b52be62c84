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

package events_test

import (
	"context"
	"testing"

	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/types"

	"github.com/stretchr/testify/assert"
)

func TestTopicMatches(t *testing.T) {
	topic := events.Topic{TraderID: "TRADER-001", StrategyID: "S-001", InstrumentID: "AUD/USD.SIM"}
	assert.True(t, topic.Matches(events.Topic{}))
	assert.True(t, topic.Matches(events.Topic{InstrumentID: "AUD/USD.SIM"}))
	assert.True(t, topic.Matches(events.Topic{TraderID: "TRADER-001", StrategyID: "S-001"}))
	assert.False(t, topic.Matches(events.Topic{StrategyID: "S-002"}))
	assert.False(t, topic.Matches(events.Topic{InstrumentID: "ETH/USDT.SIM"}))
}

func TestOrderEventPayloadIsCopied(t *testing.T) {
	e := &types.OrderEvent{
		Type:          types.OrderEventRejected,
		TraderID:      "TRADER-001",
		StrategyID:    "S-001",
		InstrumentID:  "AUD/USD.SIM",
		ClientOrderID: "O-1",
		Reason:        "No market for AUD/USD.SIM",
		TsEvent:       42,
	}
	evt := events.NewOrderEvent(context.Background(), e)
	assert.Equal(t, events.OrderEvent, evt.Type())
	assert.Equal(t, int64(42), evt.Timestamp())
	assert.Equal(t, "AUD/USD.SIM", evt.Topic().InstrumentID)

	cpy := evt.OrderEvent()
	cpy.Reason = "changed"
	assert.Equal(t, "No market for AUD/USD.SIM", evt.OrderEvent().Reason)

	evt.SetSequenceNumber(7)
	assert.Equal(t, uint64(7), evt.Sequence())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "PositionEvent", events.PositionEvent.String())
	assert.Equal(t, "UNKNOWN EVENT", events.Type(99).String())
}
