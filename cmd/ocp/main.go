package main

import (
	"os"

	"github.com/arthur-debert/ocp/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
