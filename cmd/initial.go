package cmd

import (
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phasefield/dnsinit/initial"
	"github.com/phasefield/dnsinit/macrodata"
)

// Names in the analytic initial condition file
const (
	varICX     = "x"
	varICZ     = "z"
	varICPsi   = "psi0"
	attrICSeed = "seed_val"
	attrICType = "ictype"
)

var initialCmd = &cobra.Command{
	Use:   "initial",
	Short: "Write an analytic initial level set: seed, planar or sum of sines",
	Long: `
Generates psi on the non-dimensional phase field grid selected by the Simu
parameters (nx, asp_ratio, ictype) and writes it with the noise seed.

dnsinit initial -P params.yaml -o ic.nc --seed 42`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var output string
		if output, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		if len(output) == 0 {
			return fmt.Errorf("must supply an output file (-o)")
		}
		ip, err := loadParameters()
		if err != nil {
			return
		}
		seed := uint64(time.Now().UnixNano())
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}
		rng := rand.New(rand.NewPCG(seed, seed>>1|1))
		// The noise seed is drawn first so it does not depend on the mode count
		seedVal := ip.Simu.SeedValue(rng)
		psi, err := initial.Generate(ip, rng)
		if err != nil {
			return
		}
		c := macrodata.New()
		if err = c.SetVector(varICX, "nx", psi.Grid.X); err != nil {
			return
		}
		if err = c.SetVector(varICZ, "nz", psi.Grid.Y); err != nil {
			return
		}
		if err = c.SetMatrix(varICPsi, "nx", "nz", psi.Data); err != nil {
			return
		}
		c.SetScalar(attrICSeed, float64(seedVal))
		c.SetScalar(attrICType, float64(ip.Simu.ICType))
		if err = c.Write(output); err != nil {
			return
		}
		log.WithFields(log.Fields{
			"file":     output,
			"type":     initial.Type(ip.Simu.ICType).String(),
			"seed_val": seedVal,
		}).Info("initial condition written")
		return
	},
}

func init() {
	rootCmd.AddCommand(initialCmd)
	initialCmd.Flags().StringP("output", "o", "", "output file (netCDF)")
	initialCmd.Flags().Uint64("seed", 0, "random source seed, defaults to the clock")
}
