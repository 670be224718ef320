package main

import (
	"os"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
