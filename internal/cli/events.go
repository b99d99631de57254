package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapin/tapin/internal/engine"
	"github.com/tapin/tapin/internal/lifecycle"
	"github.com/tapin/tapin/internal/store"
)

// displayTime is the layout for timestamps in human-readable output.
const displayTime = "2006-01-02 15:04:05"

// NewEventsCommand creates the events command group.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Create, list, rename, and delete events",
	}

	cmd.AddCommand(newEventsListCommand(rootOpts))
	cmd.AddCommand(newEventsCreateCommand(rootOpts))
	cmd.AddCommand(newEventsRenameCommand(rootOpts))
	cmd.AddCommand(newEventsDeleteCommand(rootOpts))
	cmd.AddCommand(newEventsBulkDeleteCommand(rootOpts))

	return cmd
}

// newManager opens the store and builds a lifecycle manager over it.
// The returned closer must be deferred.
func newManager(opts *RootOptions) (*lifecycle.Manager, *store.Store, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return lifecycle.New(st, engine.SystemClock{}), st, nil
}

// parseID parses a positive decimal event id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid event id %q", arg))
	}
	return id, nil
}

// eventInfo is the output shape for a single event.
type eventInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventInfo(ev store.Event) eventInfo {
	return eventInfo{ID: ev.ID, Name: ev.Name, CreatedAt: ev.CreatedAt}
}

func (e eventInfo) String() string {
	return fmt.Sprintf("%-4d %-30s %s", e.ID, e.Name, e.CreatedAt.Local().Format(displayTime))
}

// eventList is the output shape for events list.
type eventList []eventInfo

func (l eventList) String() string {
	if len(l) == 0 {
		return "no events"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-30s %s", "ID", "NAME", "CREATED")
	for _, e := range l {
		b.WriteString("\n")
		b.WriteString(e.String())
	}
	return b.String()
}

func newEventsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all events in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.ListEvents(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list events", err)
			}

			list := make(eventList, 0, len(events))
			for _, ev := range events {
				list = append(list, toEventInfo(ev))
			}
			return formatter(rootOpts, cmd).Success(list)
		},
	}
}

func newEventsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			ev, err := mgr.Create(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "failed to create event", err)
			}
			return formatter(rootOpts, cmd).Success(toEventInfo(ev))
		},
	}
}

func newEventsRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			mgr, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := mgr.Rename(cmd.Context(), id, args[1]); err != nil {
				return WrapExitError(ExitFailure, "failed to rename event", err)
			}
			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("event %d renamed to %q", id, strings.TrimSpace(args[1])))
		},
	}
}

func newEventsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event and all its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			mgr, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := mgr.Delete(cmd.Context(), id); err != nil {
				return WrapExitError(ExitFailure, "failed to delete event", err)
			}
			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("event %d and its transactions deleted", id))
		},
	}
}

// deleteOutcome is the output shape for one bulk-delete entry.
type deleteOutcome struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// deleteReport is the output shape for bulk-delete.
type deleteReport []deleteOutcome

func (r deleteReport) String() string {
	var b strings.Builder
	for i, o := range r {
		if i > 0 {
			b.WriteString("\n")
		}
		if o.Deleted {
			fmt.Fprintf(&b, "event %d deleted", o.ID)
		} else {
			fmt.Fprintf(&b, "event %d failed: %s", o.ID, o.Error)
		}
	}
	return b.String()
}

func (r deleteReport) allDeleted() bool {
	for _, o := range r {
		if !o.Deleted {
			return false
		}
	}
	return true
}

func newEventsBulkDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <id>[,<id>...]",
		Short: "Delete several events, continuing past failures",
		Long: `Delete several events by id. Each deletion is independent: a missing
id is reported but does not block deletion of the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids []int64
			for _, part := range strings.Split(args[0], ",") {
				id, err := parseID(strings.TrimSpace(part))
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			mgr, st, err := newManager(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			outcomes := mgr.BulkDelete(cmd.Context(), ids)
			report := make(deleteReport, 0, len(outcomes))
			for _, o := range outcomes {
				entry := deleteOutcome{ID: o.ID, Deleted: !o.Failed()}
				if o.Failed() {
					entry.Error = o.Err.Error()
				}
				report = append(report, entry)
			}

			if err := formatter(rootOpts, cmd).Success(report); err != nil {
				return err
			}
			if !report.allDeleted() {
				return NewExitError(ExitFailure, "some deletions failed")
			}
			return nil
		},
	}
}
