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

package logging

import (
	"time"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Binary constructs a field that carries an opaque binary blob.
func Binary(key string, val []byte) zap.Field {
	return zap.Binary(key, val)
}

// Bool constructs a field that carries a bool.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// String constructs a field with the given key and value.
func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and value.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error".
func Error(val error) zap.Field {
	return zap.Error(val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Time display a time.
func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

// TsNano displays an unix nano timestamp as a time.
func TsNano(key string, ts int64) zap.Field {
	return zap.Time(key, time.Unix(0, ts).UTC())
}

// Decimal display a decimal value.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// BigUint display a big uint, nil is logged as an empty string.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "")
	}
	return zap.String(key, val.String())
}

// InstrumentID constructs a field with the given instrument id.
func InstrumentID(id string) zap.Field {
	return zap.String("instrument-id", id)
}

// OrderID constructs a field with the given client order id.
func OrderID(id string) zap.Field {
	return zap.String("client-order-id", id)
}

// PositionID constructs a field with the given position id.
func PositionID(id string) zap.Field {
	return zap.String("position-id", id)
}

// Order constructs a field with the given order.
func Order(o *types.Order) zap.Field {
	return zap.String("order", o.String())
}

// OrderEvent constructs a field with the given order event.
func OrderEvent(e *types.OrderEvent) zap.Field {
	return zap.String("order-event", e.String())
}

// Fill constructs a field with the given fill.
func Fill(f *types.Fill) zap.Field {
	if f == nil {
		return zap.String("fill", "")
	}
	return zap.Object("fill", fillObject{f})
}

// Command constructs a field with the given trading command.
func Command(c types.TradingCommand) zap.Field {
	return zap.Stringer("command", c.CommandType())
}

type fillObject struct {
	*types.Fill
}

func (f fillObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("trade-id", f.TradeID)
	enc.AddString("position-id", f.PositionID)
	enc.AddString("side", f.Side.String())
	enc.AddUint64("last-qty", f.LastQty)
	enc.AddString("last-px", f.LastPx.String())
	enc.AddString("commission", f.Commission.String())
	enc.AddString("liquidity-side", f.LiquiditySide.String())
	return nil
}
