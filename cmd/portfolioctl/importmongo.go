package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shagor/portfolio-core/internal/legacy/mongoimport"
	"github.com/spf13/cobra"
)

func newImportMongoCmd(e *env) *cobra.Command {
	var (
		uri         string
		dbName      string
		collections []string
		dryRun      bool
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "import-mongo",
		Short: "Copy works, blogs, skills, contacts, admins and the CV record from MongoDB",
		Long: `Reads the legacy MongoDB collections and writes them into the configured SQL
database. Records keep their MongoDB ids, so the command can be re-run.
Uploaded CV files are not copied; keep the uploads directory in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uri == "" {
				uri = e.cfg.MongoURI
			}
			if uri == "" {
				return errors.New("--uri or MONGODB_URI is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			src, err := mongoimport.Dial(ctx, uri, dbName)
			if err != nil {
				return err
			}
			defer src.Close(context.Background())

			db, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			results, err := mongoimport.New(src, db, e.log).Run(ctx, mongoimport.Options{
				Collections: collections,
				DryRun:      dryRun,
			})
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLLECTION\tREAD\tWRITTEN\tSKIPPED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Collection, r.Read, r.Written, r.Skipped)
			}
			_ = tw.Flush()
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "dry run, nothing written")
			}
			return err
		},
	}
	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection string (default $MONGODB_URI)")
	cmd.Flags().StringVar(&dbName, "db", "", "database name when the uri has none")
	cmd.Flags().StringSliceVar(&collections, "collections", nil, "subset of collections to import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "read and convert without writing")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline")
	return cmd
}
