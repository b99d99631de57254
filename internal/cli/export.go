package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapin/tapin/internal/export"
)

// exportResult is the output shape for a completed export.
type exportResult struct {
	EventID int64  `json:"event_id"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("exported %d transactions to %s", r.Rows, r.Path)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <event-id>",
		Short: "Export an event's transactions to CSV",
		Long: `Write all transactions for an event to a timestamped CSV file:
{event name}_Transactions_{YYYYMMDD_HHMMSS}.csv

The header row is EventName,CardNumber,CheckInTime,CheckOutTime; an open
transaction has an empty CheckOutTime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			dir := outDir
			if dir == "" {
				dir = cfg.ExportDir
			}

			txns, err := st.ListAllTransactions(cmd.Context(), eventID)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read transactions", err)
			}

			path, err := export.EventCSV(cmd.Context(), st, eventID, dir, time.Now())
			if err != nil {
				return WrapExitError(ExitFailure, "export failed", err)
			}

			return formatter(rootOpts, cmd).Success(exportResult{
				EventID: eventID,
				Path:    path,
				Rows:    len(txns),
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")

	return cmd
}
