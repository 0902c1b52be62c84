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

package accounts

import (
	"sort"

	"code.vegaprotocol.io/simex/libs/num"
	"code.vegaprotocol.io/simex/types"

	"golang.org/x/exp/maps"
)

// Account holds per currency balances and, for margin accounts, the
// margin requirements of each instrument. Locked funds are tracked per
// instrument so every instrument can be recomputed on its own.
type Account struct {
	id           string
	accountType  types.AccountType
	baseCurrency string
	frozen       bool

	starting map[string]num.Decimal
	totals   map[string]num.Decimal
	// instrument id -> currency -> locked
	locks   map[string]map[string]num.Decimal
	margins map[string]types.MarginBalance

	defaultLeverage num.Decimal
	leverages       map[string]num.Decimal

	adjustments []types.Money
}

func newAccount(id string, t types.AccountType, baseCurrency string, starting []types.Money, frozen bool) *Account {
	a := &Account{
		id:              id,
		accountType:     t,
		baseCurrency:    baseCurrency,
		frozen:          frozen,
		starting:        map[string]num.Decimal{},
		defaultLeverage: num.DecimalOne(),
		leverages:       map[string]num.Decimal{},
	}
	for _, m := range starting {
		a.starting[m.Currency] = a.starting[m.Currency].Add(m.Amount)
	}
	a.reset()
	return a
}

func (a *Account) reset() {
	a.totals = make(map[string]num.Decimal, len(a.starting))
	for c, v := range a.starting {
		a.totals[c] = v
	}
	a.locks = map[string]map[string]num.Decimal{}
	a.margins = map[string]types.MarginBalance{}
	a.adjustments = nil
}

func (a *Account) ID() string                   { return a.id }
func (a *Account) Type() types.AccountType      { return a.accountType }
func (a *Account) BaseCurrency() string         { return a.baseCurrency }
func (a *Account) IsFrozen() bool               { return a.frozen }
func (a *Account) IsMargin() bool               { return a.accountType == types.AccountTypeMargin }
func (a *Account) DefaultLeverage() num.Decimal { return a.defaultLeverage }

// Leverage of the instrument, the default when not overridden.
func (a *Account) Leverage(instrumentID string) num.Decimal {
	if l, ok := a.leverages[instrumentID]; ok {
		return l
	}
	return a.defaultLeverage
}

func (a *Account) SetLeverage(instrumentID string, l num.Decimal) {
	a.leverages[instrumentID] = l
}

func (a *Account) Total(ccy string) num.Decimal {
	return a.totals[ccy]
}

// Locked is the sum of the instrument locks, capped to the positive
// total so free funds never exceed the balance.
func (a *Account) Locked(ccy string) num.Decimal {
	locked := num.DecimalZero()
	for _, l := range a.locks {
		locked = locked.Add(l[ccy])
	}
	total := a.totals[ccy]
	if !total.IsPositive() {
		return num.DecimalZero()
	}
	return num.MinD(locked, total)
}

func (a *Account) Free(ccy string) num.Decimal {
	return a.Total(ccy).Sub(a.Locked(ccy))
}

func (a *Account) Balance(ccy string) types.AccountBalance {
	return types.NewAccountBalance(ccy, a.Total(ccy), a.Locked(ccy))
}

// Balances sorted by currency.
func (a *Account) Balances() []types.AccountBalance {
	ccys := maps.Keys(a.totals)
	sort.Strings(ccys)
	out := make([]types.AccountBalance, 0, len(ccys))
	for _, c := range ccys {
		out = append(out, a.Balance(c))
	}
	return out
}

// Margins sorted by instrument.
func (a *Account) Margins() []types.MarginBalance {
	ids := maps.Keys(a.margins)
	sort.Strings(ids)
	out := make([]types.MarginBalance, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.margins[id])
	}
	return out
}

func (a *Account) Margin(instrumentID string) (types.MarginBalance, bool) {
	m, ok := a.margins[instrumentID]
	return m, ok
}

// Adjustments returns every adjustment recorded, frozen accounts included.
func (a *Account) Adjustments() []types.Money {
	out := make([]types.Money, len(a.adjustments))
	copy(out, a.adjustments)
	return out
}

func (a *Account) add(m types.Money) {
	a.totals[m.Currency] = a.totals[m.Currency].Add(m.Amount)
}

func (a *Account) lockedByInstrument(instrumentID string) map[string]num.Decimal {
	return a.locks[instrumentID]
}

// State snapshots the account.
func (a *Account) State(ts int64) types.AccountState {
	return types.AccountState{
		AccountID:    a.id,
		AccountType:  a.accountType,
		BaseCurrency: a.baseCurrency,
		Reported:     false,
		Balances:     a.Balances(),
		Margins:      a.Margins(),
		TsEvent:      ts,
	}
}
