package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/simplify"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/rob-gra/tempora/wire"
	"github.com/spf13/cobra"
)

type sample struct {
	T time.Time `json:"t"`
	V float64   `json:"v"`
}

var (
	simplifyTolerance float64
	simplifyLinear    bool
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <samples.json>",
	Short: "Douglas-Peucker simplify a tfloat sequence read from a JSON samples file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := readSamples(args[0])
		if err != nil {
			return err
		}
		seq, err := sequenceFromSamples(samples, simplifyLinear)
		if err != nil {
			return err
		}
		tol := simplifyTolerance
		if tol == 0 {
			tol = policy.Epsilon
		}
		out, err := simplify.Value(seq, tol, policy.SimplifyMinKeep)
		if err != nil {
			return err
		}
		log.Debug("simplified", "before", seq.NumInstants(), "after", out.NumInstants())
		fmt.Println(wire.Text(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
	simplifyCmd.Flags().Float64Var(&simplifyTolerance, "tolerance", 0, "deviation tolerance (defaults to the policy epsilon)")
	simplifyCmd.Flags().BoolVar(&simplifyLinear, "linear", true, "treat the sequence as linearly interpolated")
}

func readSamples(path string) ([]sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("temporalctl: %w", err)
	}
	defer f.Close()
	var samples []sample
	if err := json.NewDecoder(f).Decode(&samples); err != nil {
		return nil, fmt.Errorf("temporalctl: decode %s: %w", path, err)
	}
	return samples, nil
}

func sequenceFromSamples(samples []sample, linear bool) (temporal.Sequence, error) {
	if len(samples) == 0 {
		return temporal.Sequence{}, fmt.Errorf("temporalctl: no samples")
	}
	insts := make([]temporal.Inst, len(samples))
	for i, s := range samples {
		insts[i] = temporal.Inst{V: s.V, T: s.T}
	}
	mode := temporal.Step
	if linear {
		mode = temporal.Linear
	}
	period, err := tstamp.NewPeriod(samples[0].T, samples[len(samples)-1].T, true, true)
	if err != nil {
		return temporal.Sequence{}, err
	}
	return temporal.NewSequence(basetype.TFloat8, period, mode, insts)
}
