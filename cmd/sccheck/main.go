package main

import (
	"os"
)

const (
	exitSuccess = 0

	// exitFailure covers a failed check as well as a usage or I/O error.
	exitFailure = 1
)

func main() {
	os.Exit(Execute())
}
