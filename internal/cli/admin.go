package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewAdminCommand creates the admin command group.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(newForceCloseCommand(rootOpts))

	return cmd
}

// forceCloseResult is the output shape for force-close.
type forceCloseResult struct {
	Closed   int64     `json:"closed"`
	ClosedAt time.Time `json:"closed_at"`
}

func (r forceCloseResult) String() string {
	return fmt.Sprintf("force-closed %d open check-ins at %s",
		r.Closed, r.ClosedAt.Local().Format(displayTime))
}

func newForceCloseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "force-close",
		Short: "Check out every open check-in across all events",
		Long: `Stamp the current time as the check-out time on every transaction that
is still open, across all events. Intended for end-of-day cleanup when
attendees left without scanning out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			count, at, err := mgr.ForceCloseAllOpen(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "force-close failed", err)
			}

			return formatter(rootOpts, cmd).Success(forceCloseResult{
				Closed:   count,
				ClosedAt: at,
			})
		},
	}
}
