package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logistics-sim/fleetsim/core/clock"
	"github.com/logistics-sim/fleetsim/infra/logger"
)

var scheduleMode string

var scheduleCmd = &cobra.Command{
	Use:   "schedule <file>",
	Short: "Resolve a schedule file and print the event table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := clock.LoadSchedule(args[0], clock.TimeMode(scheduleMode), logger.New("schedule"))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFIRES AT (s)\tORIGIN\tDESTINATION\tTAG")
		for _, ev := range events {
			fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\t%s\n",
				ev.ID, ev.FiringTime, ev.OriginCode, ev.DestinationCode, ev.PriorityTag)
		}
		return w.Flush()
	},
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleMode, "mode", "m", string(clock.ModeElapsed), "time mode: elapsed or timeofday")
	rootCmd.AddCommand(scheduleCmd)
}
