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

package steps

import (
	"fmt"
	"strconv"
	"strings"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"github.com/cucumber/godog"
)

// StrictParseTable parses the table and panics when a required column is
// missing or when a column is neither required nor optional.
func StrictParseTable(dt *godog.Table, required, optional []string) []RowWrapper {
	if len(dt.Rows) == 0 {
		panic("table is empty")
	}
	known := map[string]bool{}
	for _, c := range required {
		known[c] = true
	}
	for _, c := range optional {
		known[c] = false
	}
	header := map[string]struct{}{}
	for _, cell := range dt.Rows[0].Cells {
		if _, ok := known[cell.Value]; !ok {
			panic(fmt.Sprintf("unknown column %q", cell.Value))
		}
		header[cell.Value] = struct{}{}
	}
	for c, req := range known {
		if _, ok := header[c]; req && !ok {
			panic(fmt.Sprintf("missing required column %q", c))
		}
	}
	return ParseTable(dt)
}

func ParseTable(dt *godog.Table) []RowWrapper {
	out := make([]RowWrapper, 0, len(dt.Rows)-1)
	for _, row := range dt.Rows[1:] {
		wrapper := RowWrapper{values: map[string]string{}}
		for i := range row.Cells {
			wrapper.values[dt.Rows[0].Cells[i].Value] = row.Cells[i].Value
		}
		out = append(out, wrapper)
	}
	return out
}

type RowWrapper struct {
	values map[string]string
}

func (r RowWrapper) HasColumn(name string) bool {
	v, ok := r.values[name]
	return ok && len(v) > 0
}

func (r RowWrapper) MustStr(name string) string {
	return r.values[name]
}

func (r RowWrapper) StrSlice(name, sep string) []string {
	if len(r.values[name]) == 0 {
		return nil
	}
	out := strings.Split(r.values[name], sep)
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func (r RowWrapper) MustU64(name string) uint64 {
	v, err := strconv.ParseUint(strings.ReplaceAll(r.values[name], ",", ""), 10, 0)
	panicW(name, err)
	return v
}

func (r RowWrapper) MustI64(name string) int64 {
	v, err := strconv.ParseInt(strings.ReplaceAll(r.values[name], ",", ""), 10, 0)
	panicW(name, err)
	return v
}

func (r RowWrapper) MustU8(name string) uint8 {
	v, err := strconv.ParseUint(r.values[name], 10, 8)
	panicW(name, err)
	return uint8(v)
}

func (r RowWrapper) MustBool(name string) bool {
	v, err := strconv.ParseBool(r.values[name])
	panicW(name, err)
	return v
}

// Bool is false when the column is missing or empty.
func (r RowWrapper) Bool(name string) bool {
	if !r.HasColumn(name) {
		return false
	}
	return r.MustBool(name)
}

func (r RowWrapper) MustDecimal(name string) num.Decimal {
	v, err := num.DecimalFromString(r.values[name])
	panicW(name, err)
	return v
}

// Decimal returns def when the column is missing or empty.
func (r RowWrapper) Decimal(name string, def num.Decimal) num.Decimal {
	if !r.HasColumn(name) {
		return def
	}
	return r.MustDecimal(name)
}

// MustPrice converts a human readable price at the instrument precision.
func (r RowWrapper) MustPrice(inst *types.Instrument, name string) *num.Uint {
	px, err := inst.PriceFromDecimal(r.MustDecimal(name))
	panicW(name, err)
	return px
}

// Price is nil when the column is missing or empty.
func (r RowWrapper) Price(inst *types.Instrument, name string) *num.Uint {
	if !r.HasColumn(name) {
		return nil
	}
	return r.MustPrice(inst, name)
}

func (r RowWrapper) MustQuantity(inst *types.Instrument, name string) uint64 {
	d, err := num.DecimalFromString(strings.ReplaceAll(r.values[name], ",", ""))
	panicW(name, err)
	q, err := inst.QuantityFromDecimal(d)
	panicW(name, err)
	return q
}

func (r RowWrapper) MustSide(name string) types.Side {
	s, err := types.SideFromString(r.values[name])
	panicW(name, err)
	return s
}

func (r RowWrapper) MustOrderType(name string) types.OrderType {
	t, err := types.OrderTypeFromString(r.values[name])
	panicW(name, err)
	return t
}

// TIF defaults to GTC.
func (r RowWrapper) TIF(name string) types.TimeInForce {
	if !r.HasColumn(name) {
		return types.TimeInForceGTC
	}
	tif, err := types.TimeInForceFromString(r.values[name])
	panicW(name, err)
	return tif
}

func panicW(field string, err error) {
	if err != nil {
		panic(fmt.Sprintf("couldn't parse %s: %v", field, err))
	}
}
