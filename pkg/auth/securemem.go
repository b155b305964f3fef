// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package auth

import (
	"log/slog"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/sys/unix"
)

// MinMlockLimitKB is the minimum mlock limit required to hold the
// credential in locked memory. The credential is tiny; memguard's
// guard pages dominate the requirement.
const MinMlockLimitKB = 64

var (
	// memguardInitOnce ensures memguard initialization happens only once.
	memguardInitOnce sync.Once

	// mlockSufficient indicates whether locked memory is available.
	mlockSufficient bool

	// currentMlockLimitKB stores the current mlock limit for logging.
	currentMlockLimitKB int64
)

// initSecureMemory initializes memguard and checks mlock limits.
// Called automatically when the first CredentialStore is created.
// Registers an interrupt handler so secrets are wiped on SIGINT.
func initSecureMemory() {
	memguardInitOnce.Do(func() {
		memguard.CatchInterrupt()
		mlockSufficient, currentMlockLimitKB = checkMlockLimit()
		if mlockSufficient {
			slog.Debug("secure memory initialized",
				"mlock_limit_kb", currentMlockLimitKB)
		} else {
			slog.Warn("mlock limit too low for locked memory, credential held in regular memory",
				"current_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB)
		}
	})
}

// checkMlockLimit queries the kernel for the mlock resource limit.
// Returns whether it is sufficient and the limit in KB (-1 if
// unlimited or unknown).
func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		slog.Warn("could not determine mlock limit", "error", err)
		return true, -1
	}

	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}

	limitKB := int64(rlimit.Cur / 1024)
	return limitKB >= MinMlockLimitKB, limitKB
}

// PurgeSecureMemory wipes all memguard-allocated memory. Called during
// shutdown; also triggered automatically on SIGINT/SIGTERM.
func PurgeSecureMemory() {
	memguard.Purge()
}
