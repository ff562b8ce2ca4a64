/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/gofoam/InputParameters"
	"github.com/notargets/gofoam/foam"
	"github.com/notargets/gofoam/foam/elements"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ModelUnwrap struct {
	RecordsFile string
	ICFile      string
	Step        int // -1 for every time step
	Bodies      bool
	Profile     string
}

// UnwrapCmd represents the unwrap command
var UnwrapCmd = &cobra.Command{
	Use:   "unwrap",
	Short: "Unwrap the bodies of every time step and print their properties",
	Long: `
Unwraps the bubbles of each time step across the periodic domain, then prints per time step
statistics, body properties and T1s,

gofoam unwrap -F records.yaml [-I params.yaml] [--step N] [--bodies] [--profile cpu|mem]`,
	Run: func(cmd *cobra.Command, args []string) {
		mu := &ModelUnwrap{
			RecordsFile: viper.GetString("unwrap.recordsFile"),
			ICFile:      viper.GetString("unwrap.inputConditionsFile"),
			Step:        viper.GetInt("unwrap.step"),
			Bodies:      viper.GetBool("unwrap.bodies"),
			Profile:     viper.GetString("unwrap.profile"),
		}
		fp, err := processInput(mu)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		switch mu.Profile {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		}
		if err = RunUnwrap(os.Stdout, mu, fp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(UnwrapCmd)
	UnwrapCmd.Flags().StringP("recordsFile", "F", "", "YAML file with the element records of every time step")
	UnwrapCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- FitStrategy\n\t- TimeInterval")
	UnwrapCmd.Flags().IntP("step", "s", -1, "time step to print, -1 prints all of them")
	UnwrapCmd.Flags().BoolP("bodies", "b", false, "print the properties of every body")
	UnwrapCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"recordsFile", "inputConditionsFile", "step", "bodies", "profile"} {
		_ = viper.BindPFlag("unwrap."+name, UnwrapCmd.Flags().Lookup(name))
	}
}

func processInput(mu *ModelUnwrap) (fp *InputParameters.FoamParameters, err error) {
	if len(mu.RecordsFile) == 0 {
		err = fmt.Errorf("must supply a records file (-F, --recordsFile) in YAML format")
		return
	}
	switch mu.Profile {
	case "", "cpu", "mem":
	default:
		err = fmt.Errorf("unknown profile %q, use cpu or mem", mu.Profile)
		return
	}
	fp = InputParameters.Defaults()
	if len(mu.ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(mu.ICFile); err != nil {
			return
		}
		if err = fp.Parse(data); err != nil {
			exampleFile := `
########################################
Title: "Test Case"
FitStrategy: normal_group # Can be direct_edge or triangle
NormalGroupAngle: 0.01
SkipFailedBodies: true
TimeInterval: 1.
########################################
`
			err = fmt.Errorf("%w, example file:%s", err, exampleFile)
			return
		}
	}
	return
}

// RunUnwrap processes the records file and reports on w. Failed time steps
// are reported and do not stop the others.
func RunUnwrap(w io.Writer, mu *ModelUnwrap, fp *InputParameters.FoamParameters) (err error) {
	var (
		cfg foam.Config
		rs  *foam.RawSeries
		s   *foam.Series
	)
	if cfg, err = fp.Config(); err != nil {
		return
	}
	fp.Print(w)
	if rs, err = foam.LoadSeries(mu.RecordsFile); err != nil {
		return
	}
	if s, err = foam.NewSeries(rs, cfg); err != nil {
		return
	}
	if perr := s.Process(); perr != nil {
		fmt.Fprintf(w, "processing errors: %v\n", perr)
	}
	if mu.Step >= len(s.Steps) {
		return fmt.Errorf("time step %d out of range, have %d time steps", mu.Step, len(s.Steps))
	}
	for step, f := range s.Steps {
		if mu.Step >= 0 && step != mu.Step {
			continue
		}
		if serr := s.StepError(step); serr != nil {
			fmt.Fprintf(w, "time step %d failed: %v\n", step, serr)
			continue
		}
		f.PrintStatistics(w)
		if mu.Bodies {
			printBodies(w, f.ProcessedBodies())
		}
		for _, t1 := range s.T1s(step) {
			fmt.Fprintf(w, "%s\n", t1)
		}
	}
	return
}

func printBodies(w io.Writer, bodies []*elements.Body) {
	fmt.Fprintf(w, "%6s %12s %12s %12s %12s %12s %6s\n",
		"body", "volume", "area", "pressure", "growth", "deformation", "nbrs")
	for _, b := range bodies {
		fmt.Fprintf(w, "%6d %12.6g %12.6g %12.6g %12.6g %12.6g %6d\n",
			b.ID(), b.Volume(), b.Area(), b.Pressure(), b.GrowthRate(),
			b.Deformation().EigenScalar(), len(b.Neighbors()))
	}
}
