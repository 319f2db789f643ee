package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phasefield/dnsinit/geometry2D"
	"github.com/phasefield/dnsinit/macrodata"
	"github.com/phasefield/dnsinit/reconstruct"
	"github.com/phasefield/dnsinit/utils"
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Reconstruct psi and U from a macro data file",
	Long: `
Locates the solid-liquid isotherm in the first temperature slice, marches
straight characteristics along the thermal gradient and resamples the signed
distance onto the macro grid. The input is copied to the output with the
results added.

dnsinit reconstruct -i macrodata.nc -o AM_deep.nc -P params.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			input, output string
			plot          bool
			delay         int
		)
		if input, err = cmd.Flags().GetString("input"); err != nil {
			return
		}
		if output, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		plot, _ = cmd.Flags().GetBool("plot")
		delay, _ = cmd.Flags().GetInt("delay")
		if len(input) == 0 || len(output) == 0 {
			return fmt.Errorf("must supply an input (-i) and an output (-o) file")
		}
		ip, err := loadParameters()
		if err != nil {
			return
		}
		rp := ip.Reconstruct
		if cmd.Flags().Changed("parallel") {
			rp.ParallelDegree, _ = cmd.Flags().GetInt("parallel")
		}
		if cmd.Flags().Changed("triangulator") {
			rp.Triangulator, _ = cmd.Flags().GetString("triangulator")
		}
		if cmd.Flags().Changed("target") {
			target, _ := cmd.Flags().GetFloat64("target")
			rp.TargetTemperature = &target
		}
		var c *macrodata.Container
		if c, err = macrodata.Read(input); err != nil {
			return
		}
		var res *reconstruct.Result
		if res, err = reconstruct.Run(c, rp); err != nil {
			return
		}
		printSummary(res)
		var out *macrodata.Container
		if out, err = res.Store(c); err != nil {
			return
		}
		if err = out.Write(output); err != nil {
			return
		}
		if plot {
			err = plotResult(res, rp.Triangulator, delay)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(reconstructCmd)
	reconstructCmd.Flags().StringP("input", "i", "", "macro data file (netCDF)")
	reconstructCmd.Flags().StringP("output", "o", "", "output file, the input plus psi and U")
	reconstructCmd.Flags().IntP("parallel", "n", 1, "number of goroutines, 0 uses every CPU")
	reconstructCmd.Flags().String("triangulator", "triangle", "Delaunay backend: triangle or bowyer-watson")
	reconstructCmd.Flags().Float64("target", 0, "isotherm temperature, defaults to the file's Ttip")
	reconstructCmd.Flags().Bool("plot", false, "display the interface and the marched cloud")
	reconstructCmd.Flags().IntP("delay", "d", 60000, "milliseconds to keep the plot open")
}

func printSummary(res *reconstruct.Result) {
	fmt.Printf("target tip temperature %g\n", res.Target)
	for i := 0; i < res.Lines.Len(); i++ {
		fmt.Printf("line %d: dist to the tip curve %g, calibrated tip temp %g\n",
			res.Lines.IDs[i], res.Lines.Distance[i], res.Target+res.Lines.Residual[i])
	}
	p := res.Polyline
	fmt.Printf("interface from (%g, %g) to (%g, %g), %d points\n",
		p.X[0], p.Y[0], p.X[p.Len()-1], p.Y[p.Len()-1], p.Len())
	fmt.Printf("approximated by a circle: center %g radius %g, max error %g\n",
		res.Circle.Cent, res.Circle.R0, res.Circle.MaxAbsErr())
	fmt.Printf("%d characteristics, %d points\n", res.Cloud.NSeeds, res.Cloud.Len())
}

func plotResult(res *reconstruct.Result, triangulator string, delay int) (err error) {
	var (
		cl  = res.Cloud
		box = geometry2D.NewBoundingBox(cl.X, cl.Y).Scale(1.1)
		ch  = utils.NewInterfaceChart(1920, 1080, box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1])
		e   = res.Extension
	)
	if err = ch.AddPoints("Cloud", cl.X, cl.Y, 0.5); err != nil {
		return
	}
	if err = ch.AddCurve("Interface", res.Polyline.X, res.Polyline.Y, -1); err != nil {
		return
	}
	if e.Len() > 0 {
		if err = ch.AddCurve("Extension", e.X, e.Y, -0.5); err != nil {
			return
		}
		dx, _ := box.Extent()
		if err = ch.AddNormals("Normals", e.X, e.Y, e.Nx, e.Ny, 0.02*dx); err != nil {
			return
		}
	}
	if res.Lines.Len() > 0 {
		if err = ch.AddPoints("Tips", res.Lines.X, res.Lines.Y, 1); err != nil {
			return
		}
	}
	var tr geometry2D.Triangulator
	if tr, err = geometry2D.NewTriangulator(triangulator); err != nil {
		return
	}
	var tm *geometry2D.TriMesh
	if tm, err = geometry2D.NewTriMesh(tr, cl.X, cl.Y); err != nil {
		return
	}
	gm := tm.ToGraphMesh()
	sp := utils.NewSurfacePlot(1920, 1080, box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1], &gm)
	if err = sp.AddFunctionSurface("psi", cl.Psi); err != nil {
		return
	}
	utils.SleepFor(delay)
	return
}
