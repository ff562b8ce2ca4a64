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
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gofoam",
	Short: "Periodic foam unwrapping and topology analysis",
	Long: `
Reads the time steps of a foam simulation in a periodic domain, unwraps every bubble into a closed
polyhedron (polygon in 2D) and computes volumes, neighbors, growth rates, deformation and T1s.

gofoam unwrap -F records.yaml -I params.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(viper.GetBool("verbose"), viper.GetBool("debug"), viper.GetBool("quiet"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gofoam.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log time step summaries")
	rootCmd.PersistentFlags().Bool("vv", false, "log every body")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "log errors only")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("vv"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".gofoam" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gofoam")
	}
	viper.SetEnvPrefix("gofoam")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// logLevel maps the verbosity flags to a level, the most verbose flag wins
func logLevel(verbose, debug, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	}
	return slog.LevelWarn
}

func setLogLevel(verbose, debug, quiet bool) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(verbose, debug, quiet)})
	slog.SetDefault(slog.New(h))
}
