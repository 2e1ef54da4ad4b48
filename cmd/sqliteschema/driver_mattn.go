// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package main

import _ "github.com/mattn/go-sqlite3"
