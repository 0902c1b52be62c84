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
	"fmt"

	"code.vegaprotocol.io/simex/types"
)

type Acc struct {
	*Base
	a types.AccountState
}

func NewAccountEvent(ctx context.Context, traderID string, a types.AccountState) *Acc {
	return &Acc{
		Base: newBase(ctx, AccountEvent, a.TsEvent, Topic{TraderID: traderID}),
		a:    a,
	}
}

func (a Acc) AccountID() string {
	return a.a.AccountID
}

func (a Acc) AccountState() types.AccountState {
	return a.a
}

func (a Acc) String() string {
	return fmt.Sprintf("AccountState(account_id=%s, type=%s, balances=%v, margins=%v)",
		a.a.AccountID, a.a.AccountType, a.a.Balances, a.a.Margins)
}

type MarketStatus struct {
	*Base
	status types.MarketStatus
	action types.MarketStatusAction
}

func NewMarketStatusEvent(ctx context.Context, instrumentID string, ts int64, action types.MarketStatusAction, status types.MarketStatus) *MarketStatus {
	return &MarketStatus{
		Base:   newBase(ctx, MarketStatusEvent, ts, Topic{InstrumentID: instrumentID}),
		status: status,
		action: action,
	}
}

func (m MarketStatus) Status() types.MarketStatus {
	return m.status
}

func (m MarketStatus) Action() types.MarketStatusAction {
	return m.action
}

func (m MarketStatus) String() string {
	return fmt.Sprintf("MarketStatus(instrument_id=%s, action=%s, status=%s)", m.topic.InstrumentID, m.action, m.status)
}
