package main

import (
	"log"

	cmd "github.com/nknorg/powledger/cmd/powd/commands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("Panic: %+v", r)
		}
	}()

	cmd.Execute()
}
