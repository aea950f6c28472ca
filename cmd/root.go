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

	"github.com/notargets/meshdeck/InputParameters"
	"github.com/notargets/meshdeck/deck"
)

var (
	cfgFile string
	logger  = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshdeck",
	Short: "Read, validate and write keyword mesh decks",
	Long: `
Reads keyword (*NODE, *ELEMENT, *NSET, *ELSET, *SURFACE, *INCLUDE) mesh decks,
checks their referential integrity and writes them back in a normalized layout.

meshdeck info model.inp
meshdeck convert --glob 'models/**/*.inp' --outDir out --jobs 4`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meshdeck.yaml)")
	rootCmd.PersistentFlags().String("elementTypes", "", "YAML element type catalog replacing the built in one")
	rootCmd.PersistentFlags().String("encoding", "", "input encoding, e.g. latin1 or windows-1252")
	rootCmd.PersistentFlags().Bool("noValidate", false, "skip referential integrity checks after reading")
	rootCmd.PersistentFlags().StringP("inputParameters", "I", "", "YAML file for deck parameters like:\n\t- ElementTypes\n\t- FieldsPerLine\n\t- Encoding")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging on stderr")
	for _, name := range []string{"elementTypes", "encoding", "noValidate", "inputParameters", "verbose"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
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

		// Search config in home directory with name ".meshdeck" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".meshdeck")
	}

	viper.SetEnvPrefix("MESHDECK")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadParameters merges the parameters file with the flag, environment and
// config file settings, the latter taking precedence
func loadParameters() (dp *InputParameters.DeckParameters, err error) {
	dp = &InputParameters.DeckParameters{}
	if path := viper.GetString("inputParameters"); len(path) != 0 {
		if dp, err = InputParameters.ReadFile(path); err != nil {
			return nil, err
		}
		logger.Debug("read deck parameters", "path", path)
	}
	if v := viper.GetString("elementTypes"); len(v) != 0 {
		dp.ElementTypes = v
		dp.ElementCatalog = nil
	}
	if v := viper.GetString("encoding"); len(v) != 0 {
		dp.Encoding = v
	}
	if viper.GetBool("noValidate") {
		dp.SkipValidation = true
	}
	if err = dp.Validate(); err != nil {
		return nil, err
	}
	return
}

func newReader() (*deck.Reader, *InputParameters.DeckParameters, error) {
	dp, err := loadParameters()
	if err != nil {
		return nil, nil, err
	}
	if viper.GetBool("verbose") {
		dp.Print()
	}
	r, err := dp.NewReader()
	if err != nil {
		return nil, nil, err
	}
	return r, dp, nil
}
