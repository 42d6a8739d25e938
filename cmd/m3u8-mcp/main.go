package main

import (
	"log"
	"os"
)

func main() {
	// stdout carries the MCP protocol; logs go to stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
