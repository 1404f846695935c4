package main

import (
	"os"

	"github.com/churnvision/cvadmin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
