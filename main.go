package main

import (
	"os"

	"pixbatch/commands"
	"pixbatch/logger"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
