package main

import (
	"os"

	"github.com/techstars-london/mentormagic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
