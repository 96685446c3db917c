package main

import (
	"os"

	"github.com/dshills/committed/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
