// Command lookupctl is the dispatcher's CLI, grounded on cmd/main.go's
// "build the root command, disable completion, execute" shape.
package main

import (
	"fmt"
	"os"

	"github.com/ncobase/lookup/cmd/lookupctl/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
