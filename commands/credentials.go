package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"pixbatch/config"
	"pixbatch/credentials"

	"github.com/spf13/cobra"
)

// NewCredentialsCommand creates the credentials command
func NewCredentialsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Args:    cobra.NoArgs,
		Aliases: []string{"creds"},
		Short:   "Manage mirror credentials",
		Long:    `Store, show and delete the credentials that mirror targets refer to by key.`,
	}

	cmd.AddCommand(
		newCredentialsPutCommand(),
		newCredentialsGetCommand(),
		newCredentialsDeleteCommand(),
	)

	return cmd
}

// withStore runs fn with the credentials store open
func withStore(fn func() error) error {
	if err := credentials.OpenDB(config.GetCredentialsDBPath()); err != nil {
		return err
	}
	defer credentials.CloseDB()
	return fn()
}

// parsePairs turns key=value arguments into a map
func parsePairs(pairs []string) (map[string]string, error) {
	creds := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		creds[k] = v
	}
	return creds, nil
}

func newCredentialsPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <field=value>...",
		Args:  cobra.MinimumNArgs(2),
		Short: "Store credentials under key",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			if err := withStore(func() error {
				return credentials.StoreCredentials(args[0], creds)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d fields under %s\n", len(creds), args[0])
			return nil
		},
	}
}

func newCredentialsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Show the credentials stored under key",
		RunE: func(cmd *cobra.Command, args []string) error {
			var creds map[string]string
			err := withStore(func() (err error) {
				creds, err = credentials.GetCredentials(args[0])
				return err
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(creds)
		},
	}
}

func newCredentialsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Args:  cobra.ExactArgs(1),
		Short: "Delete the credentials stored under key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func() error {
				return credentials.DeleteCredentials(args[0])
			})
		},
	}
}
