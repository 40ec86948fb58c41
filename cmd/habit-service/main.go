package main

import (
	"os"

	"github.com/habitloop/habitloop/habitservice"
)

func main() {
	if err := habitservice.Run(); err != nil {
		os.Exit(1)
	}
}
