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

	"github.com/google/go-cmp/cmp"
)

// formatDiff reports the columns of a row that did not match, as a
// (-expected +got) diff.
func formatDiff(msg string, expected, got map[string]string) error {
	return fmt.Errorf("\n%s\n(-expected +got):\n%s", msg, cmp.Diff(expected, got))
}

func errOrderNotFound(clientOrderID string, err error) error {
	return fmt.Errorf("order not found with client order id(%s): %v", clientOrderID, err)
}

func errUnknownInstrument(id string) error {
	return fmt.Errorf("instrument %s is not listed in the scenario", id)
}
