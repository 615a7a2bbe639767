package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"voc-backend/internal/ingest"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		source string
		key    string
		upload string
		reset  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the vector store with log documents",
		Long: `Populate the vector store from the built-in category templates or from a
JSON array of log documents held in the object store.

Examples:
  vocctl seed
  vocctl seed --reset
  vocctl seed --source file --key seed/logs.json
  vocctl seed --upload ./logs.json --key seed/logs.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			built, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer built.Close()

			req := ingest.SeedRequest{Source: ingest.Source(source), Key: key, Reset: reset}
			if upload != "" {
				if req.Key == "" {
					req.Key = ingest.DefaultSeedKey
				}
				f, err := os.Open(upload)
				if err != nil {
					return fmt.Errorf("open upload: %w", err)
				}
				n, err := built.Store.Put(ctx, req.Key, "application/json", f)
				f.Close()
				if err != nil {
					return fmt.Errorf("upload %s: %w", req.Key, err)
				}
				fmt.Fprintf(a.stderr, "uploaded %d bytes to %s\n", n, req.Key)
				req.Source = ingest.SourceFile
			}

			res, err := built.Seeder.Seed(ctx, req)
			if err != nil {
				return err
			}
			if err := a.printJSON(res); err != nil {
				return err
			}
			if res.Status == ingest.StatusFailed {
				return fmt.Errorf("seeding failed: %s", res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", string(ingest.SourceTemplates), "seed source: templates or file")
	cmd.Flags().StringVar(&key, "key", "", "object key for the file source")
	cmd.Flags().StringVar(&upload, "upload", "", "local JSON file to upload before seeding from it")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the store before seeding")
	return cmd
}
