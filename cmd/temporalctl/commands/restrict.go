package commands

import (
	"fmt"
	"time"

	"github.com/rob-gra/tempora/restrict"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/rob-gra/tempora/wire"
	"github.com/spf13/cobra"
)

var (
	restrictFrom  string
	restrictTo    string
	restrictAtRFC string
)

var restrictCmd = &cobra.Command{
	Use:   "restrict <samples.json>",
	Short: "Restrict a tfloat sequence to a period or a single timestamp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := readSamples(args[0])
		if err != nil {
			return err
		}
		seq, err := sequenceFromSamples(samples, true)
		if err != nil {
			return err
		}

		if restrictAtRFC != "" {
			t, err := time.Parse(time.RFC3339, restrictAtRFC)
			if err != nil {
				return fmt.Errorf("temporalctl: --at: %w", err)
			}
			inst, ok := restrict.AtTimestamp(seq, t)
			if !ok {
				return fmt.Errorf("temporalctl: sequence undefined at %s", t)
			}
			fmt.Println(wire.Text(inst))
			return nil
		}

		if restrictFrom == "" || restrictTo == "" {
			return fmt.Errorf("temporalctl: either --at or both --from and --to are required")
		}
		from, err := time.Parse(time.RFC3339, restrictFrom)
		if err != nil {
			return fmt.Errorf("temporalctl: --from: %w", err)
		}
		to, err := time.Parse(time.RFC3339, restrictTo)
		if err != nil {
			return fmt.Errorf("temporalctl: --to: %w", err)
		}
		period, err := tstamp.NewPeriod(from, to, true, true)
		if err != nil {
			return err
		}
		out, ok := restrict.AtPeriod(seq, period)
		if !ok {
			return fmt.Errorf("temporalctl: no overlap with %s", period)
		}
		fmt.Println(wire.Text(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restrictCmd)
	restrictCmd.Flags().StringVar(&restrictFrom, "from", "", "period lower bound, RFC3339")
	restrictCmd.Flags().StringVar(&restrictTo, "to", "", "period upper bound, RFC3339")
	restrictCmd.Flags().StringVar(&restrictAtRFC, "at", "", "restrict to a single instant, RFC3339")
}
