// Command lexa is a legal research assistant: it indexes legal documents
// and answers questions, drafts and reviews writing grounded in them.
package main

import (
	"os"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
