// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqliteschema

import _ "modernc.org/sqlite"
