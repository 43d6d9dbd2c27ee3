// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/localstate"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login NAME",
		Short: "Sign in by display name, creating the rater on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rater, err := a.engine.Identify(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			if err := a.state.Save(localstate.Identity{RaterID: rater.ID, RaterName: rater.Name}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", titleStyle.Render(rater.Name))
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in rater",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.identity()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", titleStyle.Render(id.RaterName), id.RaterID)

			// Best-effort: the saved identity is still shown when the server is down
			rater, err := a.client.Rater(cmd.Context(), id.RaterID)
			if err == nil {
				fmt.Fprintf(out, "Joined %s\n", humanize.Time(rater.CreatedAt))
			}
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in rater",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.state.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) participantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "participants",
		Aliases: []string{"ls"},
		Short:   "List participants with your rating progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.identity()
			if err != nil {
				return err
			}
			overview, err := a.engine.LoadParticipants(cmd.Context(), id.RaterID)
			if err != nil {
				return fmt.Errorf("load participants: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOverview(overview))
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PARTICIPANT_ID",
		Short: "List a participant's clips with your ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseParticipantID(args[0])
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}
			session, err := a.engine.Open(cmd.Context(), id.RaterID, pid)
			if err != nil {
				return fmt.Errorf("open participant %d: %w", pid, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(session.Snapshot()))
			return nil
		},
	}
}

func (a *app) rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate PARTICIPANT_ID AUDIO_NAME RATING",
		Short: "Rate one clip from 1 (not similar) to 5 (very similar)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseParticipantID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("rating must be a number from 1 to 5, got %q", args[2])
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			session, err := a.engine.Open(cmd.Context(), id.RaterID, pid)
			if err != nil {
				return fmt.Errorf("open participant %d: %w", pid, err)
			}
			if err := session.Submit(cmd.Context(), args[1], value); err != nil {
				var verr *engine.ValidationError
				if errors.As(err, &verr) {
					return err
				}
				return fmt.Errorf("rating not saved: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(session.Snapshot()))
			return nil
		},
	}
}

// identity loads the saved rater or explains how to sign in
func (a *app) identity() (localstate.Identity, error) {
	id, err := a.state.Load()
	if errors.Is(err, localstate.ErrNoIdentity) {
		return id, errors.New("not signed in; run: ratectl login NAME")
	}
	return id, err
}

func parseParticipantID(raw string) (int, error) {
	pid, err := strconv.Atoi(raw)
	if err != nil || pid < 1 {
		return 0, fmt.Errorf("invalid participant id %q", raw)
	}
	return pid, nil
}
