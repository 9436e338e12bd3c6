// notectl is a small operator CLI for inspecting and maintaining a note
// database without going through the HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shylockwolf/ainote/internal/database"
	"github.com/shylockwolf/ainote/internal/models"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:           "notectl",
		Short:         "Inspect and maintain a note database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "notes.db", "Path to the SQLite database file")

	root.AddCommand(listCmd(), addCmd(), tagsCmd(), deleteCmd(), clearCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func withStore(fn func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := database.New(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(cmd, args, database.NewNoteRepository(db))
	}
}

func listCmd() *cobra.Command {
	var asJSON bool
	var tagFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: withStore(func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error {
			notes, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			if tagFilter != "" {
				var selected []string
				for _, v := range strings.Split(tagFilter, ",") {
					if v = strings.TrimSpace(v); v != "" {
						selected = append(selected, v)
					}
				}
				notes = models.FilterNotes(notes, selected)
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(notes)
			}
			for _, n := range notes {
				values := make([]string, 0, len(n.Tags))
				for _, t := range n.Tags {
					values = append(values, t.Value)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d [%s] %s\n", n.ID, strings.Join(values, ", "), firstLine(n.Content))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print notes as JSON")
	cmd.Flags().StringVar(&tagFilter, "tags", "", "Comma-separated tag values; only notes carrying all of them are listed")
	return cmd
}

func addCmd() *cobra.Command {
	var tagPairs []string

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Store a new note",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error {
			tags, err := parseTagPairs(tagPairs)
			if err != nil {
				return err
			}
			note, err := repo.Create(cmd.Context(), args[0], tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note #%d\n", note.ID)
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&tagPairs, "tag", nil, "Tag as key=value, repeatable (keys: date, topic, category, people)")
	return cmd
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Show the tag index: distinct values with note counts, most frequent first",
		RunE: withStore(func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error {
			notes, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, tc := range models.BuildTagIndex(notes) {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", tc.Count, tc.Value)
			}
			return nil
		}),
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note and its tags",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}
			if err := repo.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note #%d\n", id)
			return nil
		}),
	}
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		RunE: withStore(func(cmd *cobra.Command, args []string, repo *database.NoteRepository) error {
			if !yes {
				return fmt.Errorf("refusing to delete all notes without --yes")
			}
			if err := repo.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all notes")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion of all notes")
	return cmd
}

func parseTagPairs(pairs []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid tag %q (expected key=value)", p)
		}
		tags = append(tags, models.Tag{Key: key, Value: value})
	}
	return tags, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80] + "..."
	}
	return s
}
