package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/badgerstore"
	"github.com/couchcryptid/asteroid-impact-service/internal/simulation"
	"github.com/spf13/cobra"
)

var (
	historyStorePath string
	historyLimit     int
	historyJSON      bool
)

func registerHistoryFlags() {
	f := historyCmd.Flags()
	f.StringVar(&historyStorePath, "store-path", "data/simulations", "badger directory holding simulation history")
	f.IntVar(&historyLimit, "limit", simulation.DefaultListLimit, "number of records to show")
	f.BoolVar(&historyJSON, "json", false, "print records as JSON")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	store, err := badgerstore.Open(badgerstore.Config{Path: historyStorePath})
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecent(cmd.Context(), simulation.ClampLimit(historyLimit))
	if err != nil {
		return err
	}
	if historyJSON {
		return printJSON(cmd.OutOrStdout(), records)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNAME\tDIAMETER (m)\tENERGY (Mt)\tREGION\tSTRATEGY")
	for _, r := range records {
		strategy := r.MitigationStrategy
		if strategy == "" {
			strategy = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.4g\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Name, r.Diameter, r.Energy, r.Region, strategy)
	}
	return tw.Flush()
}
