// Command twinaxd runs the twinax display station controller.
package main

import (
	"fmt"
	"os"

	"github.com/inmbolmie/twinax5250/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
