package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// attendee is the output shape for one currently checked-in card.
type attendee struct {
	CardNumber  string    `json:"card_number"`
	CheckInTime time.Time `json:"check_in_time"`
}

// attendeeList is the output shape for the live attendee list.
type attendeeList []attendee

func (l attendeeList) String() string {
	if len(l) == 0 {
		return "no attendees currently checked in"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %s", "CARD", "CHECKED IN")
	for _, a := range l {
		fmt.Fprintf(&b, "\n%-20s %s", a.CardNumber, a.CheckInTime.Local().Format(displayTime))
	}
	return b.String()
}

// NewAttendeesCommand creates the attendees command.
func NewAttendeesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attendees <event-id>",
		Short: "Show who is currently checked in to an event",
		Args:  cobra.ExactArgs(1),
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

			if _, err := st.GetEvent(cmd.Context(), eventID); err != nil {
				return WrapExitError(ExitFailure, "event not found", err)
			}

			open, err := st.ListOpenTransactions(cmd.Context(), eventID)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list attendees", err)
			}

			list := make(attendeeList, 0, len(open))
			for _, txn := range open {
				list = append(list, attendee{
					CardNumber:  txn.CardNumber,
					CheckInTime: txn.CheckInTime,
				})
			}
			return formatter(rootOpts, cmd).Success(list)
		},
	}
}
