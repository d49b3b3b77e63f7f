//go:build tools

// Development tool dependencies pinned in go.mod.
package items

import (
	_ "golang.org/x/tools/cmd/goimports"
)
