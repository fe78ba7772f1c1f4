// Command settingsctl inspects and edits the chatbox settings store
// without starting the desktop app.
package main

import (
	"fmt"
	"os"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorPrefix("[ERROR]")+" "+err.Error())
		os.Exit(1)
	}
}
