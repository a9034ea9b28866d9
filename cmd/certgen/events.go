package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/youruser/certapp/internal/cert"
	"github.com/youruser/certapp/internal/events"
)

func eventsCommand(a *app) *cobra.Command {
	var search, from, to string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Lists the events of the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt := events.FilterOptions{FreeWords: search}
			var err error
			if opt.From, err = parseBound(from); err != nil {
				return err
			}
			if opt.To, err = parseBound(to); err != nil {
				return err
			}

			store, err := a.store()
			if err != nil {
				return errors.Wrap(err, "load events")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDATE\tREGISTRANTS")
			for _, s := range store.List(opt) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Date, s.Registrants)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Words that must appear in the event name or id")
	cmd.Flags().StringVar(&from, "from", "", "Earliest event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest event date (YYYY-MM-DD)")

	return cmd
}

func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return cert.ParseEventDate(s)
}
