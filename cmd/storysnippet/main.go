package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/storysnippet/internal/cli"
	"codeberg.org/snonux/storysnippet/internal/models"
	"codeberg.org/snonux/storysnippet/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Arguments are valid from here on, errors are not usage errors
	cmd.SilenceUsage = true

	// Values from the config file apply where no flag was given
	cli.ApplyConfig(flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Handle --list-models flag
	if flags.ListModels {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(flags.Timeout)*time.Second)
		defer cancel()

		lister := models.NewLister(cli.GetAPIKey(), flags.BaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	apiKey, err := cli.RequireAPIKey()
	if err != nil {
		return err
	}

	proc := processor.NewProcessor(flags, apiKey)
	if err := proc.ProcessStory(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to process %s: %w", args[0], err)
	}

	return nil
}
