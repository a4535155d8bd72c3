package main

import (
	"github.com/arpitg1304/tessera/internal/cli"
)

func main() {
	cli.Execute()
}
