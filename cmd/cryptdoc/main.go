package main

import (
	"os"

	"github.com/absfs/cryptdoc/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
