package main

import (
	"os"

	"github.com/andalus/go-taraweeh-monitor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
