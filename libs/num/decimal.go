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

package num

import (
	"math/big"

	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

var (
	dzero = decimal.Zero
	d1    = decimal.NewFromInt(1)
	d10   = decimal.NewFromInt(10)
)

func MustDecimalFromString(f string) Decimal {
	d, err := DecimalFromString(f)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalOne() Decimal {
	return d1
}

func DecimalZero() Decimal {
	return dzero
}

// DecimalFromUint does not go through the float conversion so there is no
// loss of precision.
func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromUint64(u uint64) Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// DecimalPow10 returns 10^exp.
func DecimalPow10(exp uint8) Decimal {
	return d10.Pow(decimal.NewFromInt(int64(exp)))
}

// ScaleDown converts a raw integer amount carried at the given precision
// into its decimal value, 90005 at precision 3 is 90.005.
func ScaleDown(raw *Uint, precision uint8) Decimal {
	return decimal.NewFromBigInt(raw.BigInt(), -int32(precision))
}

// ScaleDownUint64 is ScaleDown for quantities.
func ScaleDownUint64(raw uint64, precision uint8) Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(precision))
}

// ScaleUp converts a decimal value into raw units at the given precision,
// the value is rounded half away from zero. Negative or overflowing values
// return true.
func ScaleUp(d Decimal, precision uint8) (*Uint, bool) {
	return UintFromDecimal(d.Shift(int32(precision)).Round(0))
}
