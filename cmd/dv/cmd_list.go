package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/deck_viewer/pkg/catalog"
)

// listCmd summarises the decks found under the given paths
var listCmd = &cobra.Command{
	Use:   "list [paths...]",
	Short: "List deck files with their titles and slide counts",
	Long: `List loads every deck file under the given files and directories
(default: the current directory) and prints its slide count and title.
Decks that fail to parse are listed with their error.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := catalog.Discover(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no deck files found")
	}

	loader := catalog.NewLoader()
	loader.SetLogger(logger)
	results, err := loader.LoadAll(cmd.Context(), paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := catalog.WriteTable(out, results); err != nil {
		return err
	}
	s := catalog.Summarize(results)
	fmt.Fprintf(out, "\n%d decks, %d slides", s.SuccessfulDecks, s.TotalSlides)
	if s.FailedDecks > 0 {
		fmt.Fprintf(out, ", %d failed", s.FailedDecks)
	}
	fmt.Fprintln(out)
	return nil
}
