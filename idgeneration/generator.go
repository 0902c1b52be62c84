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

package idgeneration

import (
	"encoding/hex"
	"fmt"

	"code.vegaprotocol.io/simex/libs/crypto"
)

// IDGenerator no mutex required, matching engines work deterministically
// and sequentially. Each call to NextID hashes the previous id so a given
// root always yields the same sequence, which keeps backtests reproducible.
type IDGenerator struct {
	nextIDBytes []byte
}

// New returns an idGenerator seeded from an hex encoded root.
func New(rootID string) *IDGenerator { //revive:disable:unexported-return
	nextIDBytes, err := hex.DecodeString(rootID)
	if err != nil {
		panic("failed to create new deterministic id generator: " + err.Error())
	}

	return &IDGenerator{
		nextIDBytes: nextIDBytes,
	}
}

// NewFromSeed hashes an arbitrary seed (an instrument id for example) into
// the root of the sequence.
func NewFromSeed(seed string) *IDGenerator {
	return &IDGenerator{
		nextIDBytes: crypto.Hash([]byte(seed)),
	}
}

func (i *IDGenerator) NextID() string {
	if i == nil {
		panic("id generator instance is not initialised")
	}

	nextID := hex.EncodeToString(i.nextIDBytes)
	i.nextIDBytes = crypto.Hash(i.nextIDBytes)
	return nextID
}

// Counter generates human readable sequential identifiers of the form
// <prefix>-<n>, venue order ids and position ids are built this way.
type Counter struct {
	prefix string
	count  uint64
}

func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

func (c *Counter) Next() string {
	c.count++
	return fmt.Sprintf("%s-%d", c.prefix, c.count)
}

func (c *Counter) Count() uint64 {
	return c.count
}

func (c *Counter) Reset() {
	c.count = 0
}
