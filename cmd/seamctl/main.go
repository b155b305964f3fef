// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"os"

	"github.com/SeamWorks/seamctl/pkg/api"
	"github.com/SeamWorks/seamctl/pkg/auth"
	"github.com/SeamWorks/seamctl/pkg/ux"
)

func main() {
	os.Exit(run())
}

// run wraps Execute so deferred cleanup survives the exit code path.
func run() int {
	defer func() {
		if appLogger != nil {
			appLogger.Close()
		}
		auth.PurgeSecureMemory()
	}()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			ux.Error("Your login has expired. Run 'seamctl login' to sign in again.")
		} else {
			ux.Error(err.Error())
		}
		return 1
	}
	return 0
}
