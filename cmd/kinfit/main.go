package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/GoSim-25-26J-441/kinfit/internal/cli"
)

func main() {
	cli.Execute()
}
