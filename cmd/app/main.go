package main

import (
	"os"

	"github.com/aprameyak/philly/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
