// Command skills-manager browses a local skills repository and installs
// skills globally or into projects.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cytsaiap-xyz/skills-manager/internal/cli"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ui.StatusError(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
