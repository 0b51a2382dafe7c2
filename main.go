// SPDX-License-Identifier: MIT
package main

import "github.com/skaphos/branchsweep/cmd/branchsweep"

// execute is overridable in tests.
var execute = branchsweep.Execute

func main() {
	execute()
}
