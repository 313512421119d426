package main

import (
	"github.com/maxmcd/cmk/internal/command"
)

func main() {
	command.RunCLI()
}
