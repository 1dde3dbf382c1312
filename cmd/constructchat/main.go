package main

import (
	"os"

	"github.com/ishika2236/ConstructionChatbot/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
