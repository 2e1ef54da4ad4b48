// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 1,
		Build: semver.Commit(),
	}
)

// Version returns the library version, including the VCS commit when the
// binary was built from a checkout.
func Version() semver.Version {
	return version
}
