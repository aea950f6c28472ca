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
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/notargets/meshdeck/deck"
)

// ValidateCmd represents the validate command
var ValidateCmd = &cobra.Command{
	Use:   "validate DECK...",
	Short: "Read decks and report every integrity violation",
	Long: `
Reads each deck with validation enabled and lists every dangling node, set
member or element reference. With --watch the decks are validated again each
time a file in their directories changes.

meshdeck validate model.inp --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		r, _, err := newReader()
		if err != nil {
			return
		}
		r.Validate = true
		failed := ValidateDecks(r, args)
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return watchDecks(ctx, args, func(path string) {
				ValidateDecks(r, []string{path})
			})
		}
		if failed != 0 {
			return fmt.Errorf("%d of %d decks failed validation", failed, len(args))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ValidateCmd)
	ValidateCmd.Flags().BoolP("watch", "w", false, "validate again whenever a file next to a deck changes")
}

// ValidateDecks reads every deck, printing each error found, and returns the
// number of decks that failed
func ValidateDecks(r *deck.Reader, paths []string) (failed int) {
	for _, path := range paths {
		m, err := r.ReadFile(path)
		if err != nil {
			failed++
			errs := multierr.Errors(err)
			fmt.Printf("%s: %d error(s)\n", path, len(errs))
			for _, e := range errs {
				fmt.Printf("\t%v\n", e)
			}
			continue
		}
		fmt.Printf("%s: ok, %d points, %d elements\n", path, m.NumPoints(), m.NumElements())
	}
	return
}

// watchDecks calls onChange for a deck whenever a file in its directory is
// written, created or renamed, until ctx is done
func watchDecks(ctx context.Context, paths []string, onChange func(path string)) (err error) {
	var watcher *fsnotify.Watcher
	if watcher, err = fsnotify.NewWatcher(); err != nil {
		return
	}
	defer watcher.Close()

	byDir := make(map[string][]string)
	for _, path := range paths {
		dir := filepath.Dir(path)
		if _, ok := byDir[dir]; !ok {
			if err = watcher.Add(dir); err != nil {
				return
			}
			logger.Info("watching directory", "path", dir)
		}
		byDir[dir] = append(byDir[dir], path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			for _, path := range byDir[filepath.Dir(event.Name)] {
				onChange(path)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", werr)
		}
	}
}
