package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rob-gra/tempora/aggregate"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/spf13/cobra"
)

type windowSample struct {
	Lower time.Time `json:"lower"`
	Upper time.Time `json:"upper"`
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <windows.json>",
	Short: "Splice period windows into the minimal covering set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("temporalctl: %w", err)
		}
		defer f.Close()
		var windows []windowSample
		if err := json.NewDecoder(f).Decode(&windows); err != nil {
			return fmt.Errorf("temporalctl: decode %s: %w", args[0], err)
		}

		periods := make([]tstamp.Period, 0, len(windows))
		for _, w := range windows {
			p, err := tstamp.NewPeriod(w.Lower, w.Upper, true, false)
			if err != nil {
				return err
			}
			periods = append(periods, p)
		}

		list := aggregate.New(policy)
		list.Splice(periods)

		fmt.Printf("scope=%s count=%d\n", list.Scope, list.Len())
		for _, p := range list.Values() {
			fmt.Println(p.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}
