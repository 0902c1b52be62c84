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

package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hash returns the sha3-256 digest of the given bytes.
func Hash(data []byte) []byte {
	h := sha3.New256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// HashToHex is Hash, hex encoded.
func HashToHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// ShakeDigest returns a 32 bytes shake256 digest of the concatenated inputs,
// hex encoded.
func ShakeDigest(parts ...[]byte) string {
	sh := sha3.NewShake256()
	for _, p := range parts {
		_, _ = sh.Write(p)
	}
	out := make([]byte, 32)
	_, _ = sh.Read(out)
	return hex.EncodeToString(out)
}
