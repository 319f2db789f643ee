package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ghodss/yaml"
)

var ErrInvalidParameter = errors.New("InputParameters: invalid parameter")

// Lengths are in microns, times in seconds, temperatures in K
type PhysParams struct {
	G      float64 `json:"G"`       // thermal gradient K/um
	R      float64 `json:"R"`       // pulling speed um/s
	Delta  float64 `json:"delta"`   // surface tension anisotropy
	K      float64 `json:"k"`       // partition coefficient
	CInfm  float64 `json:"c_infm"`  // melting temperature shift K
	Dl     float64 `json:"Dl"`      // liquid diffusion um^2/s
	D0     float64 `json:"d0"`      // capillary length um
	W0     float64 `json:"W0"`      // interface thickness um
	CInfty float64 `json:"c_infty"` // far field concentration
}

type PhysDerived struct {
	LT, Lambda, Tau0         float64
	RTilde, DlTilde, LTTilde float64
}

type SimuParams struct {
	Eps         float64 `json:"eps"`
	Alpha0      float64 `json:"alpha0"` // misorientation, degrees
	AspRatio    float64 `json:"asp_ratio"`
	Nx          int     `json:"nx"`
	Mt          int     `json:"Mt"`
	Eta         float64 `json:"eta"`
	U0          float64 `json:"U0"`
	Nts         int     `json:"nts"`
	MovingFrame bool    `json:"mv_flag"`
	ICType      int     `json:"ictype"` // 0 seed, 1 planar, 2 sum of sines
	Direc       string  `json:"direc"`
}

type SimuDerived struct {
	Lxd, Dx, Dt  float64
	TipThreshold int
}

/*
ReconstructParams drives the DNS reconstruction. A nil TargetTemperature
uses the file's Ttip, a zero MaxLength uses the x extent of the macro grid.
*/
type ReconstructParams struct {
	TargetTemperature *float64 `json:"TargetTemperature,omitempty"`
	LineIDs           []int    `json:"LineIDs"`
	CalibrationReach  float64  `json:"CalibrationReach"`
	MaxLength         float64  `json:"MaxLength"`
	ParallelDegree    int      `json:"ParallelDegree"`
	Triangulator      string   `json:"Triangulator"`
	Interpolation     string   `json:"Interpolation"`
	GridVelocity      bool     `json:"GridVelocity"`
}

// Parameters obtained from the YAML input file
type Parameters struct {
	Title       string            `json:"Title"`
	Phys        PhysParams        `json:"Phys"`
	Simu        SimuParams        `json:"Simu"`
	Reconstruct ReconstructParams `json:"Reconstruct"`
}

func NewParameters() *Parameters {
	return &Parameters{
		Title: "AM shallow",
		Phys: PhysParams{
			G:      1,
			R:      0.084e6,
			Delta:  0.01,
			K:      0.14,
			CInfm:  10.4,
			Dl:     3000,
			D0:     3.76e-3,
			W0:     5e-3,
			CInfty: 4,
		},
		Simu: SimuParams{
			Eps:         1e-8,
			Alpha0:      0,
			AspRatio:    0.5,
			Nx:          2000,
			Mt:          125000,
			Eta:         0.04,
			U0:          -0.7,
			Nts:         10,
			MovingFrame: true,
			ICType:      1,
			Direc:       ".",
		},
		Reconstruct: ReconstructParams{
			LineIDs:          []int{2, 7, 17},
			CalibrationReach: 100,
			ParallelDegree:   1,
			Triangulator:     "triangle",
			Interpolation:    "bilinear",
		},
	}
}

// Parse overlays the YAML document onto the current values
func (ip *Parameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *Parameters) Validate() error {
	var (
		ph = ip.Phys
		si = ip.Simu
	)
	switch {
	case !(ph.K > 0 && ph.K < 1):
		return fmt.Errorf("k = %g outside (0, 1): %w", ph.K, ErrInvalidParameter)
	case !(ph.G > 0), !(ph.Dl > 0), !(ph.D0 > 0), !(ph.W0 > 0):
		return fmt.Errorf("G, Dl, d0 and W0 must be positive: %w", ErrInvalidParameter)
	case si.Nx <= 0:
		return fmt.Errorf("nx = %d: %w", si.Nx, ErrInvalidParameter)
	case !(si.AspRatio > 0):
		return fmt.Errorf("asp_ratio = %g: %w", si.AspRatio, ErrInvalidParameter)
	case si.ICType < 0 || si.ICType > 2:
		return fmt.Errorf("ictype = %d: %w", si.ICType, ErrInvalidParameter)
	case ip.Reconstruct.CalibrationReach < 0, ip.Reconstruct.MaxLength < 0:
		return fmt.Errorf("negative reconstruction length: %w", ErrInvalidParameter)
	}
	return nil
}

// Derived returns the non-dimensional values based on W0 and tau0
func (ph PhysParams) Derived() (pd PhysDerived) {
	pd.LT = ph.CInfm * (1/ph.K - 1) / ph.G
	pd.Lambda = 5 * math.Sqrt(2) / 8 * ph.W0 / ph.D0
	pd.Tau0 = 0.6267 * pd.Lambda * ph.W0 * ph.W0 / ph.Dl
	pd.RTilde = ph.R * pd.Tau0 / ph.W0
	pd.DlTilde = ph.Dl * pd.Tau0 / (ph.W0 * ph.W0)
	pd.LTTilde = pd.LT / ph.W0
	return
}

func (si SimuParams) Derived(ph PhysParams) (sd SimuDerived) {
	var (
		nx = float64(si.Nx)
		pd = ph.Derived()
	)
	sd.Lxd = 1.5 * ph.W0 * nx
	sd.Dx = sd.Lxd / nx / ph.W0
	sd.Dt = 0.2 * sd.Dx * sd.Dx / (4 * pd.DlTilde)
	sd.TipThreshold = int(math.Ceil(0.7 * nx * si.AspRatio))
	return
}

// SeedValue draws the noise seed in [1, 1000)
func (si SimuParams) SeedValue(rng *rand.Rand) uint64 {
	return uint64(1 + rng.IntN(999))
}

func (ip *Parameters) Print() {
	var (
		ph = ip.Phys
		si = ip.Simu
		pd = ph.Derived()
		sd = si.Derived(ph)
		rp = ip.Reconstruct
	)
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%12.5g\t\t= G [K/um]\n", ph.G)
	fmt.Printf("%12.5g\t\t= R [um/s]\n", ph.R)
	fmt.Printf("%12.5g\t\t= delta\n", ph.Delta)
	fmt.Printf("%12.5g\t\t= k\n", ph.K)
	fmt.Printf("%12.5g\t\t= c_infm [K]\n", ph.CInfm)
	fmt.Printf("%12.5g\t\t= Dl [um^2/s]\n", ph.Dl)
	fmt.Printf("%12.5g\t\t= d0 [um]\n", ph.D0)
	fmt.Printf("%12.5g\t\t= W0 [um]\n", ph.W0)
	fmt.Printf("%12.5g\t\t= c_infty\n", ph.CInfty)
	fmt.Printf("%12.5g\t\t= lT [um]\n", pd.LT)
	fmt.Printf("%12.5g\t\t= lambda\n", pd.Lambda)
	fmt.Printf("%12.5g\t\t= tau0 [s]\n", pd.Tau0)
	fmt.Printf("%12.5g\t\t= R~\n", pd.RTilde)
	fmt.Printf("%12.5g\t\t= Dl~\n", pd.DlTilde)
	fmt.Printf("%12.5g\t\t= lT~\n", pd.LTTilde)
	fmt.Printf("[%d]\t\t\t= nx\n", si.Nx)
	fmt.Printf("%12.5g\t\t= asp_ratio\n", si.AspRatio)
	fmt.Printf("%12.5g\t\t= lxd [um]\n", sd.Lxd)
	fmt.Printf("%12.5g\t\t= dx\n", sd.Dx)
	fmt.Printf("%12.5g\t\t= dt\n", sd.Dt)
	fmt.Printf("[%d]\t\t\t= Mt\n", si.Mt)
	fmt.Printf("[%d]\t\t\t= nts\n", si.Nts)
	fmt.Printf("%12.5g\t\t= eta\n", si.Eta)
	fmt.Printf("%12.5g\t\t= U0\n", si.U0)
	fmt.Printf("[%t]\t\t\t= moving frame\n", si.MovingFrame)
	fmt.Printf("[%d]\t\t\t= tip threshold\n", sd.TipThreshold)
	fmt.Printf("[%d]\t\t\t= ictype\n", si.ICType)
	fmt.Printf("[%s]\t\t\t= direc\n", si.Direc)
	if rp.TargetTemperature != nil {
		fmt.Printf("%12.5g\t\t= target temperature [K]\n", *rp.TargetTemperature)
	}
	fmt.Printf("%v\t\t= line ids\n", rp.LineIDs)
	fmt.Printf("[%s]\t\t= triangulator\n", rp.Triangulator)
}
