package main

import (
	"os"

	"github.com/soundprediction/totg/cmd/totg"
)

func main() {
	if err := totg.Execute(); err != nil {
		os.Exit(1)
	}
}
