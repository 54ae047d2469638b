package commands

import (
	"encoding/json"

	"pixbatch/config"
	"pixbatch/credentials"
	"pixbatch/history"
	"pixbatch/job"
	"pixbatch/logger"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "run <manifest>",
		Args:  cobra.ExactArgs(1),
		Short: "Run one batch manifest (JSON or YAML) and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := job.LoadManifest(args[0])
			if err != nil {
				return err
			}

			if len(req.Mirrors) > 0 {
				if err := credentials.OpenDB(config.GetCredentialsDBPath()); err != nil {
					return err
				}
				defer credentials.CloseDB()
			}
			if record {
				if err := history.Init(config.GetHistoryDBPath()); err != nil {
					return err
				}
				defer history.Close()
			}

			id := job.NewBatchID()
			result, err := job.Submit(cmd.Context(), id, req)
			if err != nil {
				logger.Errorf("Batch %s failed after %d saved", id, job.SavedBefore(err))
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "record the batch in the history store")

	return cmd
}
