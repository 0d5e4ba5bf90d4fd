/*
Copyright © 2024 the Exposure authors.
This file is part of Exposure.

Exposure is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Exposure is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Exposure.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package exposureutil contains the command-line interface to the
// exposure risk model.
package exposureutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/exposure"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// formUsage describes the scenario inputs, keyed by form key.
var formUsage = map[string]string{
	"C0":                       "C0 is the Wells-Riley quanta concentration [quanta/L]. It is reported but not simulated.",
	"Q0":                       "Q0 is the Wells-Riley exhalation flow [L/s]. It is reported but not simulated.",
	"p":                        "p is the Wells-Riley inhalation flow [L/s]. It is reported but not simulated.",
	"gamma":                    "gamma is the Wells-Riley gamma parameter. It is reported but not simulated.",
	"ACH":                      "ACH is the room ventilation rate in air changes per hour.",
	"room_volume":              "room_volume is the room volume [m³].",
	"delta_t":                  "delta_t is the duration of the exposure [s].",
	"x":                        "x is the distance between the exposed person and the other occupants [m].",
	"f_e":                      "f_e is the fraction of exhaled particles passing through the mask of a masked occupant.",
	"f_i":                      "f_i is the fraction of inhaled particles passing through the mask of the exposed person.",
	"omicron":                  "omicron is the nominal transmissibility multiplier of the circulating variant.",
	"covid_prevalence":         "covid_prevalence is the percentage of occupants who are infectious.",
	"immune":                   "immune is the susceptibility of the exposed person relative to a naive person (1 = no protection).",
	"N":                        "N is the number of other occupants in the room.",
	"activity_choice":          "activity_choice is the legacy activity intensity (1-5), used for the activity label.",
	"percentage_masked":        "percentage_masked is the fraction of occupants wearing masks [0-1].",
	"user_physical_activity":   "user_physical_activity is the exertion of the exposed person: sitting, standing, light, moderate, or heavy.",
	"others_physical_activity": "others_physical_activity is the exertion of the other occupants: sitting, standing, light, moderate, or heavy.",
	"others_vocal_activity":    "others_vocal_activity is the vocal activity of the other occupants: breathing, speaking, or loudly_speaking.",
	"RH":                       "RH is the relative humidity [0-1].",
	"CO2":                      "CO2 is the indoor carbon dioxide concentration [ppm].",
	"inside_temp":              "inside_temp is the indoor temperature [K].",
	"immunocompromised_status": "immunocompromised_status is the immune status of infectious occupants: normal, moderate, severe, or unsure.",
}

func init() {
	// Options are the configuration options available to the model.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location. TOML, YAML,
              and JSON files are accepted; keys are the scenario input names.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to log the progress of each
              simulation step.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "seed",
			usage: `
              seed specifies the random number seed. Runs with the same seed
              and inputs give identical results. Zero selects a seed from
              the current time.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers specifies the number of concurrent workers. Zero uses
              one worker per available processor.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "trials",
			usage: `
              trials specifies the number of Monte Carlo trials. Zero
              selects the number from the expected number of infectious
              occupants.`,
			shorthand:  "n",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "repeat",
			usage: `
              repeat specifies a number of identical exposures for which to
              report the cumulative risk.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "format",
			usage: `
              format specifies the output format: json, yaml, or text.`,
			shorthand:  "f",
			defaultVal: "json",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "plot",
			usage: `
              plot specifies a file to save a histogram of trial risks to.
              The image format is chosen from the file extension (for
              example .png, .svg, or .pdf).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "outputs",
			usage: `
              outputs specifies derived output variables as a map of output
              names to expressions of the result variables, for example
              {"expected_cases": "risk * N", "weekly": "cumulative(risk, 5)"}.
              Available variables are risk, median, p0_5, p5, p25, p75, p95,
              p99_5, trials, expected_infectious, q_e, N, N_masked, N_unmasked,
              delta_t, room_volume, ACH, x, and Sx. Available functions are
              exp, cumulative, min, and max.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "xlsx",
			usage: `
              xlsx specifies a spreadsheet file to save the result summary
              and risk histogram to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "timeout",
			usage: `
              timeout specifies the maximum duration of the simulation, for
              example "30s". Zero means no limit.`,
			defaultVal: "0s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "addr",
			usage: `
              addr specifies the network address for the server to listen on.`,
			defaultVal: "localhost:8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}
	for _, key := range exposure.FormKeys {
		options = append(options, struct {
			name, usage, shorthand string
			defaultVal             interface{}
			flagsets               []*pflag.FlagSet
		}{
			name:       key,
			usage:      "\n              " + formUsage[key],
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		})
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("EXPOSURE")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(configCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("exposure: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "exposure",
	Short: "An airborne infection risk model.",
	Long: `exposure estimates the probability that a person sharing a room with
other occupants becomes infected with SARS-CoV-2 through airborne
transmission. Each run is a Monte Carlo simulation over occupant viral
loads, breathing rates, and dose-response parameters.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'EXPOSURE_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the exposure model.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("exposure v%s\n", exposure.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Estimate the infection risk of a scenario.",
	Long: `run simulates an exposure scenario and prints the mean, median, and
credible intervals of the infection risk along with a histogram of the
trial risks. Inputs that are not specified take their default values.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr(), Cfg.GetBool("verbose"))

		opts, err := simulationOptions(Cfg, log)
		if err != nil {
			return err
		}
		format := Cfg.GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}
		timeout, err := cast.ToDurationE(Cfg.Get("timeout"))
		if err != nil {
			return fmt.Errorf("exposure: invalid timeout %q: %v", Cfg.GetString("timeout"), err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		resp := exposure.Evaluate(ctx, formValues(Cfg), opts...)
		if err := writeResponse(cmd.OutOrStdout(), resp, format); err != nil {
			return err
		}
		if resp.Err != nil {
			return resp.Err
		}
		if path := Cfg.GetString("xlsx"); path != "" {
			if err := saveSpreadsheet(resp.Result, path); err != nil {
				return err
			}
			log.WithField("file", path).Info("saved result spreadsheet")
		}
		if path := Cfg.GetString("plot"); path != "" {
			if resp.Result.Distribution == nil {
				log.WithField("file", path).Warn("no risk distribution to plot")
				return nil
			}
			if err := savePlot(resp.Result, path); err != nil {
				return err
			}
			log.WithField("file", path).Info("saved risk histogram")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective scenario inputs.",
	Long: `config validates the scenario inputs gathered from the configuration
file, environment variables, and command-line flags, and prints them in
TOML format. The output can be used as a configuration file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := exposure.ParseForm(formValues(Cfg))
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(in)
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer exposure scenario requests over HTTP.",
	Long: `serve starts a web server that runs a simulation for each POST request
and responds with the result in JSON format. Requests may be form-encoded
or a JSON object, keyed by the scenario input names. Invalid inputs yield
a 400 response with a single "error" key.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr(), Cfg.GetBool("verbose"))
		timeout, err := cast.ToDurationE(Cfg.Get("timeout"))
		if err != nil {
			return fmt.Errorf("exposure: invalid timeout %q: %v", Cfg.GetString("timeout"), err)
		}
		var opts []exposure.Option
		if n := Cfg.GetInt("workers"); n != 0 {
			opts = append(opts, exposure.WithWorkers(n))
		}
		s := NewServer(timeout, opts...)
		s.Log = log

		addr := Cfg.GetString("addr")
		srv := &http.Server{
			Addr:              addr,
			Handler:           s,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		log.Infof("listening on http://%s", addr)
		return srv.ListenAndServe()
	},
	DisableAutoGenTag: true,
}

// formValues gathers the scenario inputs from cfg as strings.
// Unset inputs are blank and take their defaults.
func formValues(cfg *viper.Viper) map[string]string {
	values := make(map[string]string, len(exposure.FormKeys))
	for _, key := range exposure.FormKeys {
		values[key] = cast.ToString(cfg.Get(key))
	}
	return values
}

// simulationOptions converts the simulation settings in cfg into options.
func simulationOptions(cfg *viper.Viper, log logrus.FieldLogger) ([]exposure.Option, error) {
	opts := []exposure.Option{exposure.WithObserver(exposure.LogObserver(log))}
	seed, err := cast.ToInt64E(cfg.Get("seed"))
	if err != nil {
		return nil, fmt.Errorf("exposure: invalid seed: %v", err)
	}
	if seed != 0 {
		opts = append(opts, exposure.WithSeed(uint64(seed)))
	} else {
		opts = append(opts, exposure.WithSeed(uint64(time.Now().UnixNano())))
	}
	for _, o := range []struct {
		name string
		opt  func(int) exposure.Option
	}{
		{"workers", exposure.WithWorkers},
		{"trials", exposure.WithTrials},
		{"repeat", exposure.WithRepeatedExposures},
	} {
		v, err := cast.ToIntE(cfg.Get(o.name))
		if err != nil {
			return nil, fmt.Errorf("exposure: invalid %s: %v", o.name, err)
		}
		if v != 0 {
			opts = append(opts, o.opt(v))
		}
	}
	outputs, err := getStringMapString("outputs", cfg)
	if err != nil {
		return nil, err
	}
	if len(outputs) > 0 {
		opts = append(opts, exposure.WithOutputs(checkOutputVars(outputs)))
	}
	return opts, nil
}
