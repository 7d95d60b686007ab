// Demo entrypoint for the Cobra CLI harness; delegates to cmd.Execute.
package main

import (
	"github.com/ams-eos/ams-eos-core/cmd"
)

func main() {
	cmd.Execute()
}
