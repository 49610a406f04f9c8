package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/playok/compliancemon/internal/board"
	"github.com/playok/compliancemon/internal/dashboard"
	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/scheduler"
)

var errPassFailed = errors.New("reconciliation pass failed")

func newSnapshotCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one reconciliation pass and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			log = logging.Quiet(log)

			sched := scheduler.New(newReconciler(cfg, log, nil), board.New(), scheduler.WithLogger(log))
			snap := sched.RunOnce(cmd.Context())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(snap); err != nil {
					return err
				}
			} else {
				printPanel(out, dashboard.Build(snap))
			}
			if !snap.OK() {
				return errPassFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw snapshot as JSON")
	return cmd
}

func printPanel(w io.Writer, p dashboard.Panel) {
	title := color.New(color.Bold)
	label := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	title.Fprintln(w, p.Title)
	if p.Error != "" {
		color.New(color.FgRed, color.Bold).Fprintln(w, p.Error)
		return
	}
	faint.Fprintf(w, "pass %s\n\n", p.PassID)

	for _, t := range p.Tiles {
		label.Fprintf(w, "  %-20s ", t.Title)
		if t.Known {
			fmt.Fprintln(w, t.Value)
		} else {
			faint.Fprintln(w, t.Value)
		}
	}
	for _, l := range p.Lists {
		fmt.Fprintln(w)
		title.Fprintln(w, l.Title)
		if len(l.Items) == 0 {
			faint.Fprintf(w, "  %s\n", l.Placeholder)
			continue
		}
		for _, item := range l.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}
