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
	"sort"

	"github.com/spf13/cobra"

	"github.com/notargets/meshdeck/mesh"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info [DECK]",
	Short: "Summarize a deck: blocks, sets, bounds and orphan points",
	Long: `
Reads a deck and prints its element blocks, named sets, coordinate bounds and
the points no element references. With --types lists the element catalog.

meshdeck info model.inp`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		r, _, err := newReader()
		if err != nil {
			return
		}
		if types, _ := cmd.Flags().GetBool("types"); types {
			for _, name := range r.Catalog.Names() {
				info, _ := r.Catalog.Lookup(name)
				fmt.Printf("%-10s dim=%d nodes=%d\n", name, info.Dim, info.Nodes)
			}
			if len(args) == 0 {
				return
			}
		}
		if len(args) != 1 {
			return fmt.Errorf("info expects one deck file, got %d", len(args))
		}
		var m *mesh.Mesh
		if m, err = r.ReadFile(args[0]); err != nil {
			return
		}
		PrintInfo(m)
		return
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().BoolP("types", "t", false, "list the element types of the catalog")
}

func PrintInfo(m *mesh.Mesh) {
	fmt.Println(m.String())
	counts := m.ElementCounts()
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Printf("[%d]\t\t= %s elements\n", counts[typ], typ)
	}
	if m.NumPoints() != 0 {
		lo, hi := m.Bounds()
		fmt.Printf("[%8.5f, %8.5f, %8.5f]\t= Min Coordinates\n", lo[0], lo[1], lo[2])
		fmt.Printf("[%8.5f, %8.5f, %8.5f]\t= Max Coordinates\n", hi[0], hi[1], hi[2])
	}
	if valence := m.NodeValence(); len(valence) != 0 {
		var maxValence int
		for _, v := range valence {
			maxValence = max(maxValence, v)
		}
		fmt.Printf("[%d]\t\t= Max Elements per Point\n", maxValence)
	}
	orphans := m.OrphanPoints()
	fmt.Printf("[%d]\t\t= Orphan Points\n", len(orphans))
	if len(orphans) != 0 {
		fmt.Printf("Orphan Point IDs = %v\n", orphans)
	}
	printSets("Node Set", m.NodeSets.Names(), func(name string) int { ids, _ := m.NodeSets.Get(name); return len(ids) })
	printSets("Element Set", m.ElementSets.Names(), func(name string) int { ids, _ := m.ElementSets.Get(name); return len(ids) })
	for _, name := range m.SurfaceSets.Names() {
		tokens, _ := m.SurfaceSets.Get(name)
		fmt.Printf("Surface[%s] = %v (%s)\n", name, tokens, m.SurfaceType(name))
	}
}

func printSets(label string, names []string, size func(string) int) {
	for _, name := range names {
		fmt.Printf("%s[%s] = %d members\n", label, name, size(name))
	}
}
