package commands

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/compliance-view/internal/application"
	appcompliance "github.com/bryanwahyu/compliance-view/internal/application/compliance"
	"github.com/bryanwahyu/compliance-view/internal/bootstrap"
	"github.com/bryanwahyu/compliance-view/internal/config"
	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
	"github.com/bryanwahyu/compliance-view/internal/infra/render"
	"github.com/bryanwahyu/compliance-view/internal/logging"
)

// errQueryFailed makes the process exit non-zero after the error panel was printed.
var errQueryFailed = errors.New("system data could not be loaded")

func newShowCommand(configPath *string) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show [inventoryId]",
		Short: "Show policies and rules of one system",
		Long: `Runs the system compliance query once and prints the policy summary
and the rules table, or the error panel when the query fails.
Without an inventory id the query is sent without a system id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
				path = v
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			log := logging.New(cfg.Log, cmd.ErrOrStderr())

			store, closeStore, err := bootstrap.NewStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			view := &appcompliance.View{
				Client: bootstrap.NewClient(cfg, store, logging.Component(log, "graphql"), nil),
				Clock:  application.SystemClock{},
				Log:    logging.Component(log, "view"),
			}

			var systemID string
			if len(args) == 1 {
				systemID = args[0]
			}
			return runShow(cmd, view, systemID, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the view as JSON")
	return cmd
}

func runShow(cmd *cobra.Command, view *appcompliance.View, systemID string, jsonOut bool) error {
	var failed bool
	err := view.Render(cmd.Context(), systemID, func(st domain.State) error {
		_, failed = st.(domain.Failed)
		if jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(render.JSON(systemID, st))
		}
		return render.Text(cmd.OutOrStdout(), st)
	})
	if err != nil {
		return err
	}
	if failed {
		return errQueryFailed
	}
	return nil
}
