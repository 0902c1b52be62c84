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

package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	"code.vegaprotocol.io/simex/events"
	"code.vegaprotocol.io/simex/types"

	"github.com/fatih/color"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	purple  = color.New(color.FgMagenta).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	noColor = fmt.Sprint
)

// printer is a broker subscriber writing every event on one line, it
// also keeps the counts the summary is made of.
type printer struct {
	mu    sync.Mutex
	id    int
	w     io.Writer
	quiet bool

	orderEvents map[types.OrderEventType]int
	fills       int
	filledQty   map[string]uint64
	events      int
}

func newPrinter(w io.Writer, quiet bool) *printer {
	return &printer{
		w:           w,
		quiet:       quiet,
		orderEvents: map[types.OrderEventType]int{},
		filledQty:   map[string]uint64{},
	}
}

func (p *printer) Push(evts ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range evts {
		p.events++
		paint := noColor
		switch evt := e.(type) {
		case *events.Order:
			paint = p.onOrder(evt)
		case *events.Position:
			paint = cyan
		case *events.Acc:
			paint = purple
		case *events.MarketStatus:
			paint = yellow
		}
		if p.quiet {
			continue
		}
		fmt.Fprintf(p.w, "%s %s %s\n",
			faint(fmt.Sprintf("%6d", e.Sequence())),
			faint(time.Unix(0, e.Timestamp()).UTC().Format(time.RFC3339Nano)),
			paint(e))
	}
}

func (p *printer) onOrder(evt *events.Order) func(...interface{}) string {
	t := evt.OrderEventType()
	p.orderEvents[t]++
	switch t {
	case types.OrderEventFilled:
		p.fills++
		if f := evt.OrderEvent().Fill; f != nil {
			p.filledQty[evt.InstrumentID()] += f.LastQty
		}
		return green
	case types.OrderEventDenied, types.OrderEventRejected,
		types.OrderEventModifyRejected, types.OrderEventCancelRejected:
		return red
	case types.OrderEventCanceled, types.OrderEventExpired:
		return yellow
	}
	return noColor
}

func (p *printer) Types() []events.Type { return nil }
func (p *printer) Topic() events.Topic  { return events.Topic{} }
func (p *printer) SetID(id int)         { p.id = id }
func (p *printer) ID() int              { return p.id }
