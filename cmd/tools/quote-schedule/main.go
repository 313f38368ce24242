// cmd/tools/quote-schedule/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "quote-schedule",
		Short: "Convert quote schedule workbooks and sync them with the back office",
	}

	rootCmd.AddCommand(
		ParseCmd(),
		RenderCmd(),
		PullCmd(),
		PushCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
