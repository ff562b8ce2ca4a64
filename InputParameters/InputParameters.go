package InputParameters

import (
	"fmt"
	"io"
	"math"

	"github.com/ghodss/yaml"
	"github.com/notargets/gofoam/foam"
	"github.com/notargets/gofoam/foam/unwrap"
)

// Parameters obtained from the YAML input file
type FoamParameters struct {
	Title             string  `json:"Title"`
	Tolerance         float64 `json:"Tolerance"`
	FitStrategy       string  `json:"FitStrategy"`      // normal_group, direct_edge or triangle
	NormalGroupAngle  float64 `json:"NormalGroupAngle"` // degrees
	AdjustPressure    bool    `json:"AdjustPressure"`
	SkipFailedBodies  bool    `json:"SkipFailedBodies"`
	ParallelDegree    int     `json:"ParallelDegree"`
	TimeInterval      float64 `json:"TimeInterval"`
	QuadraticSegments int     `json:"QuadraticSegments"`
}

// Defaults returns the parameters matching foam.DefaultConfig
func Defaults() *FoamParameters {
	cfg := foam.DefaultConfig()
	return &FoamParameters{
		Title:             "foam",
		Tolerance:         cfg.Tolerance,
		FitStrategy:       cfg.Strategy.String(),
		NormalGroupAngle:  cfg.GroupAngle * 180 / math.Pi,
		AdjustPressure:    cfg.AdjustPressure,
		SkipFailedBodies:  cfg.SkipFailedBodies,
		ParallelDegree:    cfg.ParallelDegree,
		TimeInterval:      cfg.TimeInterval,
		QuadraticSegments: cfg.QuadraticSegments,
	}
}

// Parse overlays the values in data, keys that are absent keep their value
func (fp *FoamParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FoamParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", fp.Title)
	fmt.Fprintf(w, "%8.2e\t\t= Tolerance\n", fp.Tolerance)
	fmt.Fprintf(w, "[%s]\t= Fit Strategy\n", fp.FitStrategy)
	fmt.Fprintf(w, "%8.5f\t\t= Normal Group Angle\n", fp.NormalGroupAngle)
	fmt.Fprintf(w, "[%v]\t\t\t= Adjust Pressure\n", fp.AdjustPressure)
	fmt.Fprintf(w, "[%v]\t\t\t= Skip Failed Bodies\n", fp.SkipFailedBodies)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Parallel Degree\n", fp.ParallelDegree)
	fmt.Fprintf(w, "%8.5f\t\t= Time Interval\n", fp.TimeInterval)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Quadratic Segments\n", fp.QuadraticSegments)
}

func (fp *FoamParameters) Config() (cfg foam.Config, err error) {
	cfg = foam.DefaultConfig()
	if fp.FitStrategy != "" {
		if cfg.Strategy, err = unwrap.NewStrategy(fp.FitStrategy); err != nil {
			return
		}
	}
	if fp.Tolerance < 0 || fp.NormalGroupAngle < 0 || fp.TimeInterval < 0 || fp.ParallelDegree < 0 {
		err = fmt.Errorf("tolerance, normal group angle, time interval and parallel degree can not be negative")
		return
	}
	if fp.Tolerance > 0 {
		cfg.Tolerance = fp.Tolerance
	}
	if fp.NormalGroupAngle > 0 {
		cfg.GroupAngle = fp.NormalGroupAngle * math.Pi / 180
	}
	if fp.TimeInterval > 0 {
		cfg.TimeInterval = fp.TimeInterval
	}
	if fp.QuadraticSegments > 0 {
		cfg.QuadraticSegments = fp.QuadraticSegments
	}
	cfg.AdjustPressure = fp.AdjustPressure
	cfg.SkipFailedBodies = fp.SkipFailedBodies
	cfg.ParallelDegree = fp.ParallelDegree
	return
}
