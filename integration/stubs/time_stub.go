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

package stubs

import (
	"context"
	"time"
)

// TimeStub is the venue clock of a scenario, moving it forward notifies
// the subscribers with the new time.
type TimeStub struct {
	now         time.Time
	subscribers []func(context.Context, time.Time)
}

func NewTimeStub() *TimeStub {
	startTime, _ := time.Parse("2006-01-02T15:04:05Z", "2024-01-02T00:00:00Z")
	return &TimeStub{
		now: startTime,
	}
}

func (t *TimeStub) GetTimeNow() time.Time {
	return t.now
}

// Nanos is the current time as a unix nanosecond timestamp.
func (t *TimeStub) Nanos() int64 {
	return t.now.UnixNano()
}

// Tick moves the clock by a millisecond without notifying, market data
// and commands are stamped with distinct times.
func (t *TimeStub) Tick() int64 {
	t.now = t.now.Add(time.Millisecond)
	return t.now.UnixNano()
}

func (t *TimeStub) SetTime(ctx context.Context, newNow time.Time) {
	t.now = newNow
	t.notify(ctx, t.now)
}

func (t *TimeStub) NotifyOnTick(f func(context.Context, time.Time)) {
	t.subscribers = append(t.subscribers, f)
}

func (t *TimeStub) notify(ctx context.Context, newTime time.Time) {
	for _, subscriber := range t.subscribers {
		subscriber(ctx, newTime)
	}
}
