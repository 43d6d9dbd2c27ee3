// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command ratectl rates audio clips from the terminal against a running
// audio rating server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/audio-rating/client"
	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/localstate"
)

var version = "dev"

const defaultServer = "http://localhost:3318"

// app carries what every subcommand needs once flags are parsed
type app struct {
	serverURL   string
	statePath   string
	concurrency int

	client *client.Client
	engine *engine.Engine
	state  *localstate.Store
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ratectl",
		Short:         "Rate participant audio clips",
		Long:          "ratectl signs in by display name, lists participants with your progress and records 1-5 similarity ratings.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}
			a.client = client.New(a.serverURL, client.DefaultRate, client.DefaultBurst)
			a.engine = engine.New(a.client, a.client, a.client, a.concurrency)
			if a.statePath != "" {
				a.state = localstate.NewStore(a.statePath)
			} else {
				a.state = localstate.Default()
			}
			return nil
		},
	}

	server := os.Getenv("AUDIO_RATING_SERVER")
	if server == "" {
		server = defaultServer
	}

	root.PersistentFlags().StringVarP(&a.serverURL, "server", "s", server, "Rating server URL")
	root.PersistentFlags().StringVar(&a.statePath, "state", "", "Path to the saved identity file")
	root.PersistentFlags().IntVar(&a.concurrency, "concurrency", engine.DefaultMaxConcurrency, "Parallel fetches when loading progress")

	root.AddCommand(
		a.loginCmd(),
		a.whoamiCmd(),
		a.logoutCmd(),
		a.participantsCmd(),
		a.showCmd(),
		a.rateCmd(),
	)
	return root
}
