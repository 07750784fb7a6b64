package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/internal/filter"
)

func newFacetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show folder and category facets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			facets, counts, err := ctx.recipeService().Facets(cmd.Context())
			if err != nil {
				return err
			}
			printFacets(cmd, facets, counts)
			return nil
		},
	}
}

func printFacets(cmd *cobra.Command, facets filter.FacetSet, counts filter.Counts) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recipes: %d total, %d visible, %d hidden, %d tried\n",
		counts.Total, counts.Visible, counts.Hidden, counts.Tried)

	rows := make([][]string, 0, len(facets.Folders)+len(facets.Categories))
	for _, f := range facets.Folders {
		rows = append(rows, []string{"folder", f})
	}
	for _, c := range facets.Categories {
		rows = append(rows, []string{"category", c})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "Facets: none")
		return
	}
	fmt.Fprintln(out, renderTable([]string{"Facet", "Value"}, rows))
	fmt.Fprintf(out, "%d folders, %d categories\n", len(facets.Folders), len(facets.Categories))
}
