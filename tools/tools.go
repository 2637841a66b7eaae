//go:build tools
// +build tools

// Package tools pins the codegen binaries in go.mod so every checkout
// installs the same enumer and mockgen versions via go install.
package tools

import (
	_ "github.com/dmarkham/enumer"
	_ "go.uber.org/mock/mockgen"
)
