package main

import (
	"os"

	"notebuddy/internal/command"
)

func main() {
	os.Exit(command.Main(os.Args))
}
