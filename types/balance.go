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

type Money struct {
	Amount   num.Decimal
	Currency string
}

func NewMoney(amount num.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func ZeroMoney(currency string) Money {
	return Money{Amount: num.DecimalZero(), Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Add panics when the currencies differ, callers always sum within a
// single currency.
func (m Money) Add(o Money) Money {
	if len(m.Currency) > 0 && len(o.Currency) > 0 && m.Currency != o.Currency {
		panic(ErrMoneyCurrencyMismatch)
	}
	ccy := m.Currency
	if len(ccy) == 0 {
		ccy = o.Currency
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: ccy}
}

func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}

// AccountBalance for a single currency, Free is always Total - Locked.
type AccountBalance struct {
	Currency string
	Total    num.Decimal
	Locked   num.Decimal
	Free     num.Decimal
}

func NewAccountBalance(currency string, total, locked num.Decimal) AccountBalance {
	return AccountBalance{
		Currency: currency,
		Total:    total,
		Locked:   locked,
		Free:     total.Sub(locked),
	}
}

func (b AccountBalance) String() string {
	return fmt.Sprintf("AccountBalance(total=%s %s, locked=%s %s, free=%s %s)",
		b.Total, b.Currency, b.Locked, b.Currency, b.Free, b.Currency)
}

// MarginBalance per instrument of a margin account.
type MarginBalance struct {
	InstrumentID string
	Currency     string
	Initial      num.Decimal
	Maintenance  num.Decimal
}

func (m MarginBalance) String() string {
	return fmt.Sprintf("MarginBalance(instrument_id=%s, initial=%s %s, maintenance=%s %s)",
		m.InstrumentID, m.Initial, m.Currency, m.Maintenance, m.Currency)
}

// AccountState is the snapshot published after every balance change.
type AccountState struct {
	AccountID    string
	AccountType  AccountType
	BaseCurrency string
	Reported     bool
	Balances     []AccountBalance
	Margins      []MarginBalance
	TsEvent      int64
}
