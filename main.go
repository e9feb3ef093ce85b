package main

import (
	"log"

	"github.com/example/flashdrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
