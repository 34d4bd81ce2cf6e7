package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the prebuilt pages into the page store",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, logger, err := newApp()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer app.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		slugs, err := app.Build(ctx)
		if err != nil {
			return err
		}
		for _, slug := range slugs {
			fmt.Fprintln(cmd.OutOrStdout(), slug)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spacetraveling %s\n", version)
	},
}
