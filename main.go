package main

import (
	"fmt"
	"os"

	"sansls/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sansls: %s\n", err)
		os.Exit(1)
	}
}
