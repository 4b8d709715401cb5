package main

import (
	"os"

	"github.com/hardcodead/go-pi-i2c/internal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
