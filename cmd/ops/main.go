package main

import (
	"os"

	logger "github.com/Bparsons0904/goLogger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.New("ops").Function("main").Er("command failed", err)
		os.Exit(1)
	}
}
