// Copyright (c) 2025 The BitNames developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/btcsuite/btclog"

// log is the package-level logger for the view stack and validation
// routines. It defaults to disabled; callers wire up a real backend with
// UseLogger, following the convention used throughout the sidechain's
// packages. No routine in this package currently writes to it.
var log = btclog.Disabled

// UseLogger sets the package-wide logger. This should be called before
// the package is used.
func UseLogger(logger btclog.Logger) {
	log = logger
}
