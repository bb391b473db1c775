package main

import (
	"os"
)

// Version is stamped at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
