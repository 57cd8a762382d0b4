// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// Amount represents a signed count of the sidechain's base monetary unit.
type Amount int64

// MaxMoney is the maximum transaction amount allowed, mirroring Bitcoin's
// 21-million-coin supply cap expressed in base units.
const MaxMoney = Amount(21_000_000 * 1e8)

// MoneyRange returns true when 0 <= a <= MaxMoney.
func MoneyRange(a Amount) bool {
	return a >= 0 && a <= MaxMoney
}
