package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The logger may not be initialized when startup fails.
		os.Stderr.WriteString("signalcraft: " + err.Error() + "\n")
		os.Exit(1)
	}
}
