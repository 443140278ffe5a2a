// Command rbbbctl runs administrative tasks against the engagement data layer:
// forcing a sync from the remote mirror and importing methodology templates.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
