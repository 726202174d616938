package main

import (
	"os"

	"github.com/niktheblak/iot-ntttcp-simulator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
