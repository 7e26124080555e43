/*
Copyright © 2019 the TOUCAN authors.
This file is part of TOUCAN.

TOUCAN is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

TOUCAN is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with TOUCAN.  If not, see <http://www.gnu.org/licenses/>.
*/

package toucanutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/toucan"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information and the commands that use it.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	versionCmd, runCmd, lifetimeCmd, steelCmd, fitCmd, libraryCmd *cobra.Command

	// Log receives progress messages from the simulations.
	Log *logrus.Logger
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates a new configuration with the command tree
// linked together and every option bound to a flag.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}

	cfg.Root = &cobra.Command{
		Use:   "toucan",
		Short: "A model of impurity outgassing in noble-liquid detectors.",
		Long: `TOUCAN simulates the outgassing of impurities such as oxygen and nitrogen
from the plastic parts of xenon detectors, and the resulting electron
lifetime. Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TOUCAN_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of TOUCAN.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "TOUCAN v%s\n", toucan.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Simulate outgassing.",
		Long: `run simulates the outgassing of the selected solute from the selected
fixture over a sequence of time segments, each with its own temperature. The
impurities remaining in the fixture and the outgassing flow rate are written to
OutputFile (or standard output if OutputFile is empty), and optionally plotted.

	Output variables:
	t: Time since the start of the first segment [s]
	t_hours, t_days: The same time in hours or days
	segment: The index of the time segment
	temperature: The segment temperature [K]
	diffusion: The diffusion constant at the segment temperature [cm²/s]
	impurities: The impurities remaining in the fixture [ImpurityUnits]
	flow: The outgassing flow rate [FlowUnits per second]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.library()
			if err != nil {
				return err
			}
			setup, err := cfg.setup(lib)
			if err != nil {
				return err
			}
			sc, timeScale, err := cfg.scenario()
			if err != nil {
				return err
			}
			sim, err := cfg.simulator()
			if err != nil {
				return err
			}
			out, err := cfg.output()
			if err != nil {
				return err
			}
			return Run(cmd.OutOrStdout(), sim, setup, sc, timeScale, out)
		},
		DisableAutoGenTag: true,
	}

	cfg.lifetimeCmd = &cobra.Command{
		Use:   "lifetime",
		Short: "Calculate the electron lifetime.",
		Long: `lifetime calculates the electron lifetime over time in the xenon of the
selected setup, where impurities are removed by a purifier and added by
outgassing. The times are given by the TimePoints, TimeSpacing, TimeScale
and TimeGrid options.

	Output variables:
	t: Time [s]
	impurities: The impurity concentration
	lifetime: The electron lifetime`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.library()
			if err != nil {
				return err
			}
			setup, err := cfg.setup(lib)
			if err != nil {
				return err
			}
			sc, timeScale, err := cfg.scenario()
			if err != nil {
				return err
			}
			c0, p, err := cfg.purification(setup, sc.ImpurityUnit)
			if err != nil {
				return err
			}
			out, err := cfg.output()
			if err != nil {
				return err
			}
			return Lifetime(cmd.OutOrStdout(), setup, flatten(sc.Segments), c0, p, timeScale, out)
		},
		DisableAutoGenTag: true,
	}

	cfg.steelCmd = &cobra.Command{
		Use:   "steel",
		Short: "Calculate the outgassing rate of stainless steel.",
		Long: `steel calculates the outgassing rate of a stainless steel surface with the
area of the selected fixture while it is pumped, where the rate falls as the
inverse of the pumping time. The pumping times are given by the TimePoints,
TimeSpacing, TimeScale and TimeGrid options and must all be after zero.

	Output variables:
	t: Pumping time [s]
	flow: The outgassing flow rate [mBar L/s]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.library()
			if err != nil {
				return err
			}
			setup, err := cfg.setup(lib)
			if err != nil {
				return err
			}
			segments, timeScale, err := cfg.timeGrid()
			if err != nil {
				return err
			}
			out, err := cfg.output()
			if err != nil {
				return err
			}
			return Steel(cmd.OutOrStdout(), setup, flatten(segments),
				cfg.GetFloat64("Steel.UnbakedRate"), cfg.GetFloat64("Steel.PumpedTime"), timeScale, out)
		},
		DisableAutoGenTag: true,
	}

	cfg.fitCmd = &cobra.Command{
		Use:   "fit",
		Short: "Fit purity monitor measurements.",
		Long: `fit fits the purity monitor model, in which the inverse electron
lifetime grows linearly with time, to electron lifetime measurements. The
measurements are read from the Excel file given by Fit.InputFile, which must
have the columns 't' [s] and 'lifetime' [μs].`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cfg.output()
			if err != nil {
				return err
			}
			return Fit(cmd.OutOrStdout(),
				os.ExpandEnv(cfg.GetString("Fit.InputFile")),
				cfg.GetString("Fit.Sheet"),
				cfg.GetFloat64("Fit.ElectronConstant"),
				cfg.GetFloat64("Fit.XenonMass"),
				out)
		},
		DisableAutoGenTag: true,
	}

	cfg.libraryCmd = &cobra.Command{
		Use:   "library",
		Short: "List the property library.",
		Long: `library lists the materials, solutes, gases, setups and fixtures in the
property library given by the Library option, or in the built-in library if
Library is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.library()
			if err != nil {
				return err
			}
			return ListLibrary(cmd.OutOrStdout(), lib)
		},
		DisableAutoGenTag: true,
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.runCmd)
	cfg.Root.AddCommand(cfg.lifetimeCmd)
	cfg.Root.AddCommand(cfg.steelCmd)
	cfg.Root.AddCommand(cfg.fitCmd)
	cfg.Root.AddCommand(cfg.libraryCmd)

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("TOUCAN")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range cfg.options() {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case []float64, map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.StringP(option.name, option.shorthand, string(bytes.TrimSpace(b.Bytes())), option.usage)
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// options returns the configuration options available to TOUCAN.
func (cfg *Cfg) options() []option {
	var (
		setupSets    = []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.lifetimeCmd.Flags(), cfg.steelCmd.Flags(), cfg.libraryCmd.Flags()}
		timeSets     = setupSets[:3]
		scenarioSets = setupSets[:2]
		outputSets   = []*pflag.FlagSet{cfg.runCmd.Flags(), cfg.lifetimeCmd.Flags(), cfg.steelCmd.Flags(), cfg.fitCmd.Flags()}
	)
	return []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "log_level",
			usage: `
              log_level sets the logging level. Options are
              panic, fatal, error, warning, info and debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "Library",
			usage: `
              Library is the path to a property library file in JSON, TOML or
              YAML format. If it is empty, the built-in library is used.`,
			defaultVal: "",
			flagsets:   setupSets,
		},
		{
			name: "Setup",
			usage: `
              Setup is the name of the detector setup in the property library.`,
			defaultVal: "EXO-200",
			flagsets:   setupSets[:3],
		},
		{
			name: "Material",
			usage: `
              Material is the material that the outgassing fixture is made of.`,
			defaultVal: "Teflon",
			flagsets:   setupSets[:3],
		},
		{
			name: "Solute",
			usage: `
              Solute is the gas that is dissolved in the material.`,
			defaultVal: "Oxygen",
			flagsets:   setupSets[:3],
		},
		{
			name: "Fixture",
			usage: `
              Fixture is the name of the outgassing part of the setup.`,
			defaultVal: "EXO-Teflon",
			flagsets:   setupSets[:3],
		},
		{
			name: "TimePoints",
			usage: `
              TimePoints are the boundaries between time segments, in units
              of TimeScale. There is one time segment between each pair of
              consecutive points.`,
			defaultVal: []float64{0, 100},
			flagsets:   timeSets,
		},
		{
			name: "TimeSpacing",
			usage: `
              TimeSpacing is the step between timestamps, in units of TimeScale.`,
			defaultVal: 1.0,
			flagsets:   timeSets,
		},
		{
			name: "TimeScale",
			usage: `
              TimeScale is the unit of TimePoints and TimeSpacing. Options are
              Seconds, Minutes, Hours, Days and Weeks.`,
			defaultVal: "Days",
			flagsets:   timeSets,
		},
		{
			name: "TimeGrid",
			usage: `
              TimeGrid specifies how timestamps are placed within each segment.
              'step' steps from the start of the segment by TimeSpacing and
              excludes the end of the segment; 'linspace' includes both ends
              and spaces the timestamps evenly.`,
			defaultVal: "step",
			flagsets:   timeSets,
		},
		{
			name: "Temperatures",
			usage: `
              Temperatures are the temperatures [K] of each time segment, or a
              single temperature for all segments.`,
			defaultVal: []float64{293.15},
			flagsets:   scenarioSets,
		},
		{
			name: "Constraints",
			usage: `
              Constraints are optional per-segment divisors of the initial
              impurities that set the lowest amount of impurities each segment
              can reach. Constraints must be at least 1; segments without one
              are unconstrained.`,
			defaultVal: []float64{},
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Terms",
			usage: `
              Terms is the number of terms in the diffusion series solution.`,
			defaultVal: toucan.DefaultTerms,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Clock",
			usage: `
              Clock specifies how timestamps are converted to diffusion times.
              'relative' restarts the time at the start of each segment after
              the first; 'absolute' uses the time since the start of the first
              segment.`,
			defaultVal: "relative",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "ImpurityUnits",
			usage: `
              ImpurityUnits are the units of the impurities. Options are
              count, mass, ppm, ppb and ppt.`,
			defaultVal: "count",
			flagsets:   scenarioSets,
		},
		{
			name: "FlowUnits",
			usage: `
              FlowUnits are the units of the flow rate. Options are count, which
              gives ImpurityUnits per second, and 'mBar Liter', which requires
              ImpurityUnits=count.`,
			defaultVal: "count",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Tail.DecayRate",
			usage: `
              Tail.DecayRate is the rate [1/s] at which the flow rate of a
              constrained segment relaxes after its impurities reach the
              constraint. If it is zero, the flow rate is held constant.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "Tail.Split",
			usage: `
              Tail.Split is the fraction of the flow rate at the constraint that
              the flow rate relaxes toward.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to write results to. Files ending in
              .xlsx are written as Excel files and other files as text. If it
              is empty, results are written to standard output.`,
			defaultVal: "",
			shorthand:  "o",
			flagsets:   outputSets,
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which variables to output as a JSON
              object mapping output names to expressions of the output
              variables listed in the command documentation. If it is empty,
              all variables are written.`,
			defaultVal: map[string]string{},
			flagsets:   outputSets[:3],
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to save a figure of the results to, with an
              extension such as .png, .svg or .pdf. If it is empty, no figure
              is created.`,
			defaultVal: "",
			flagsets:   outputSets,
		},
		{
			name: "OpenPlot",
			usage: `
              OpenPlot specifies whether to open PlotFile after it is saved.`,
			defaultVal: false,
			flagsets:   outputSets,
		},
		{
			name: "Summary",
			usage: `
              Summary specifies whether to write the minimum, maximum, mean and
              standard deviation of each output variable to standard output.`,
			defaultVal: false,
			flagsets:   outputSets[:3],
		},
		{
			name: "Lifetime.InitialImpurities",
			usage: `
              Lifetime.InitialImpurities is the impurity concentration in the
              xenon at t=0, in ImpurityUnits. If it is negative, the amount of
              solute initially dissolved in the fixture is used.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Lifetime.CirculationRate",
			usage: `
              Lifetime.CirculationRate is the rate at which xenon gas is pushed
              through the purifier [L/s].`,
			defaultVal: 0.3,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Lifetime.Efficiency",
			usage: `
              Lifetime.Efficiency is the fraction of impurities removed in one
              pass through the purifier.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Lifetime.OutDiffusion",
			usage: `
              Lifetime.OutDiffusion is the rate at which outgassing adds
              impurities to the xenon, in ImpurityUnits per second.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Lifetime.PurifierOutput",
			usage: `
              Lifetime.PurifierOutput is the impurity concentration of the
              xenon leaving the purifier.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Lifetime.FieldFactor",
			usage: `
              Lifetime.FieldFactor converts the impurity concentration into an
              electron lifetime. If it is zero, the field factor of the setup in
              the property library is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.lifetimeCmd.Flags()},
		},
		{
			name: "Steel.UnbakedRate",
			usage: `
              Steel.UnbakedRate is the outgassing rate per unit area of unbaked
              stainless steel [mBar L/(s cm²)], measured after Steel.PumpedTime.`,
			defaultVal: 3.e-10,
			flagsets:   []*pflag.FlagSet{cfg.steelCmd.Flags()},
		},
		{
			name: "Steel.PumpedTime",
			usage: `
              Steel.PumpedTime is the pumping time [s] after which
              Steel.UnbakedRate was measured.`,
			defaultVal: 36000.0,
			flagsets:   []*pflag.FlagSet{cfg.steelCmd.Flags()},
		},
		{
			name: "Fit.InputFile",
			usage: `
              Fit.InputFile is the Excel file holding the measurements to fit.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.fitCmd.Flags()},
		},
		{
			name: "Fit.Sheet",
			usage: `
              Fit.Sheet is the name of the sheet in Fit.InputFile that holds
              the measurements. If it is empty, the first sheet is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.fitCmd.Flags()},
		},
		{
			name: "Fit.ElectronConstant",
			usage: `
              Fit.ElectronConstant is the attachment constant that converts the
              impurity amount into an inverse electron lifetime.`,
			defaultVal: 300.0,
			flagsets:   []*pflag.FlagSet{cfg.fitCmd.Flags()},
		},
		{
			name: "Fit.XenonMass",
			usage: `
              Fit.XenonMass is the mass of xenon in the purity monitor system [kg].`,
			defaultVal: 200.0,
			flagsets:   []*pflag.FlagSet{cfg.fitCmd.Flags()},
		},
	}
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("toucan: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("toucan: invalid log_level: %v", err)
	}
	cfg.Log.SetLevel(level)
	cfg.Log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	return nil
}
