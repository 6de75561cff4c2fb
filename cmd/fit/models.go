package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/FlavioCFOliveira/neuroweights/internal/storage"
	"github.com/dustin/go-humanize"
)

func runModels(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	storeKind := fs.String("store", "sqlite", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "neuroweights.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(store)

	ids, err := store.ListModels(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAlgorithm\tTopology\tWeights\tLoss\tIters\tFitted")
	for _, id := range ids {
		m, ok, err := store.GetModel(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		iters := "-"
		if run, ok, err := store.GetRun(ctx, id); err == nil && ok {
			iters = humanize.Comma(int64(run.Iters))
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%.6f\t%s\t%s\n",
			m.ID, m.Algorithm, m.Topology, humanize.Comma(int64(len(m.Weights))), m.Loss, iters,
			humanize.RelTime(m.CreatedAt, time.Now(), "ago", "from now"))
	}
	return tw.Flush()
}
