package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tapin/tapin/internal/engine"
	"github.com/tapin/tapin/internal/session"
)

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	var stopKeyword string

	cmd := &cobra.Command{
		Use:   "scan <event-id>",
		Short: "Run an interactive check-in/check-out session",
		Long: `Read card credentials line by line and toggle each between checked-in
and checked-out for the given event.

Empty lines are ignored. A line equal to the stop keyword
(case-insensitive) ends the session. A card scanned twice within the
debounce window is rejected with the remaining wait time.

Example:
  tapin scan 3
  tapin scan 3 --stop-keyword done < badge-feed.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runScanSession(rootOpts, cmd, eventID, stopKeyword)
		},
	}

	cmd.Flags().StringVar(&stopKeyword, "stop-keyword", "", "keyword that ends the session (default from config)")

	return cmd
}

// scanSummary is the output shape for a finished session.
type scanSummary struct {
	Session   string `json:"session"`
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
	CheckIns  int    `json:"check_ins"`
	CheckOuts int    `json:"check_outs"`
	TooSoon   int    `json:"too_soon"`
	Failed    int    `json:"failed"`
}

func (s scanSummary) String() string {
	return fmt.Sprintf("session ended: %d check-ins, %d check-outs, %d too-soon, %d failed",
		s.CheckIns, s.CheckOuts, s.TooSoon, s.Failed)
}

// printReporter streams per-scan outcomes to the terminal.
type printReporter struct {
	w io.Writer
}

func (p printReporter) Accepted(res engine.ScanResult) {
	fmt.Fprintf(p.w, "%-9s %s at %s\n",
		res.Action.String(), res.Card, res.At.Local().Format(displayTime))
}

func (p printReporter) Rejected(card string, remaining int) {
	fmt.Fprintf(p.w, "too soon: %s was just scanned, wait %d more seconds\n", card, remaining)
}

func (p printReporter) Failed(card string, err error) {
	fmt.Fprintf(p.w, "error: scan %s not recorded: %v\n", card, err)
}

func runScanSession(opts *RootOptions, cmd *cobra.Command, eventID int64, stopKeyword string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Resolve the event up front so a bad id fails before any scanning.
	ev, err := st.GetEvent(cmd.Context(), eventID)
	if err != nil {
		return WrapExitError(ExitFailure, "event not found", err)
	}

	if stopKeyword == "" {
		stopKeyword = cfg.StopKeyword
	}

	eng := engine.New(st, engine.SystemClock{}, engine.WithWindow(cfg.DebounceWindow()))
	sess := session.New(eng, ev.ID, session.WithStopKeyword(stopKeyword))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scanning for event %q (id %d); type %q to end\n", ev.Name, ev.ID, stopKeyword)

	sum, err := sess.Run(cmd.Context(), cmd.InOrStdin(), printReporter{w: out})
	if err != nil {
		return WrapExitError(ExitFailure, "scan session aborted", err)
	}

	return formatter(opts, cmd).Success(scanSummary{
		Session:   sess.Token(),
		EventID:   ev.ID,
		EventName: ev.Name,
		CheckIns:  sum.CheckIns,
		CheckOuts: sum.CheckOuts,
		TooSoon:   sum.TooSoon,
		Failed:    sum.Failed,
	})
}
