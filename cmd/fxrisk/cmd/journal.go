package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxrisk/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the assessment journal",
	Long: `Query assessments recorded in the SQLite journal. Output is Org-mode.

Subcommands:
  list - List recent entries, newest first
  show - Show one entry with its request and result

Examples:
  fxrisk --journal fxrisk.db journal list --kind size --limit 20
  fxrisk --journal fxrisk.db journal show 01HV3K8Z9Q7M2N4P6R8T0V2X4Y`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <entry-id>",
	Short: "Show a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalKind  string
	journalLimit int
)

var errNoJournal = errors.New("no journal configured (use --journal or journal.db_path)")

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalListCmd.Flags().StringVar(&journalKind, "kind", "", "evaluate|size|signals|trailing|srstop")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 50, "maximum entries")
}

func openJournal() (*journal.SQLite, error) {
	if cfg.Journal.DBPath == "" {
		return nil, errNoJournal
	}
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(cmd.Context(), journal.Filter{Kind: journal.Kind(journalKind), Limit: journalLimit})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntriesOrg(entries))
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	e, err := j.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntryOrg(e))
	return nil
}
