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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/meshdeck/InputParameters"
	"github.com/notargets/meshdeck/deck"
)

type Convert struct {
	Input, Output  string
	Glob, OutDir   string
	Jobs           int
	Profile        bool
	ProfileDir     string
	reader         *deck.Reader
	deckParameters *InputParameters.DeckParameters
}

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert [IN]",
	Short: "Read, validate and rewrite decks, flattening includes",
	Long: `
Reads a deck (resolving *INCLUDE files), validates it and writes it back as a
single normalized deck.

meshdeck convert model.inp -o flat.inp
meshdeck convert --glob 'models/**/*.inp' --outDir out --jobs 4`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		c := &Convert{}
		c.Output, _ = cmd.Flags().GetString("output")
		c.Glob, _ = cmd.Flags().GetString("glob")
		c.OutDir, _ = cmd.Flags().GetString("outDir")
		c.Jobs, _ = cmd.Flags().GetInt("jobs")
		c.Profile, _ = cmd.Flags().GetBool("profile")
		c.ProfileDir, _ = cmd.Flags().GetString("profileDir")
		if len(args) == 1 {
			c.Input = args[0]
		}
		if err = c.check(len(args)); err != nil {
			return
		}
		if c.reader, c.deckParameters, err = newReader(); err != nil {
			return
		}
		if c.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(c.ProfileDir), profile.Quiet).Stop()
		}
		return c.Run(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("output", "o", "", "output deck for a single input")
	ConvertCmd.Flags().StringP("glob", "g", "", "doublestar pattern selecting input decks, e.g. 'models/**/*.inp'")
	ConvertCmd.Flags().String("outDir", "", "output directory for --glob, keeps paths relative to the pattern base")
	ConvertCmd.Flags().IntP("jobs", "j", 1, "number of decks converted concurrently")
	ConvertCmd.Flags().Bool("profile", false, "write a CPU profile of the conversion")
	ConvertCmd.Flags().String("profileDir", ".", "directory for the --profile output")
}

func (c *Convert) check(nargs int) error {
	switch {
	case nargs > 1:
		return fmt.Errorf("convert takes at most one input deck, got %d", nargs)
	case len(c.Glob) == 0 && (len(c.Input) == 0 || len(c.Output) == 0):
		return fmt.Errorf("must supply an input deck and an output (-o, --output), or --glob with --outDir")
	case len(c.Glob) != 0 && len(c.Input) != 0:
		return fmt.Errorf("--glob and an input deck are exclusive")
	case len(c.Glob) != 0 && len(c.OutDir) == 0:
		return fmt.Errorf("--glob requires --outDir")
	case c.Jobs < 1:
		return fmt.Errorf("--jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

func (c *Convert) Run(ctx context.Context) (err error) {
	if len(c.Glob) == 0 {
		return c.convertFile(c.Input, c.Output)
	}
	var matches []string
	if matches, err = doublestar.FilepathGlob(c.Glob); err != nil {
		return fmt.Errorf("bad glob %q: %w", c.Glob, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no decks match %q", c.Glob)
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(c.Glob))
	base = filepath.FromSlash(base)
	logger.Info("converting decks", "count", len(matches), "jobs", c.Jobs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Jobs)
	for _, in := range matches {
		rel, rerr := filepath.Rel(base, in)
		if rerr != nil {
			rel = filepath.Base(in)
		}
		out := filepath.Join(c.OutDir, rel)
		in := in // per-iteration copy (go1.22+ loop semantics under the go 1.21 directive)
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return c.convertFile(in, out)
		})
	}
	return g.Wait()
}

func (c *Convert) convertFile(in, out string) (err error) {
	m, err := c.reader.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err = os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return
	}
	var file *os.File
	if file, err = os.Create(out); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := deck.NewWriter(file)
	c.deckParameters.Configure(w)
	if err = w.Write(m); err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}
	logger.Debug("converted deck", "input", in, "output", out,
		"points", m.NumPoints(), "elements", m.NumElements())
	return
}
