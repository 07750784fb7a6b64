package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type seedRecipe struct {
	recipe   service.NewRecipe
	rating   int
	tried    bool
	folder   types.Folder
	category []string
	dietary  []string
}

var seedRecipes = []seedRecipe{
	{
		recipe: service.NewRecipe{
			Title:   "Weeknight Lentil Soup",
			Content: "Sweat onion, carrot and celery. Add red lentils, stock and cumin. Simmer 25 minutes and finish with lemon.",
			Notes:   "Doubles well for the freezer.",
		},
		rating: 4, tried: true,
		folder:   types.Folders[11],
		category: []string{"soup"},
		dietary:  []string{"vegetarian", "gluten-free", "dairy-free"},
	},
	{
		recipe: service.NewRecipe{
			Title:   "Buttermilk Pancakes",
			Content: "Whisk flour, sugar, baking powder and soda. Fold in buttermilk, egg and melted butter. Cook on a hot griddle.",
		},
		rating: 5, tried: true,
		folder:   types.Folders[14],
		category: []string{"breakfast"},
		dietary:  []string{"vegetarian"},
	},
	{
		recipe: service.NewRecipe{
			Title:      "Braised Short Ribs",
			Content:    "Sear ribs, soften aromatics, deglaze with red wine and braise with stock for three hours.",
			SourceType: "cookbook",
		},
		folder:   types.Folders[1],
		category: []string{"main course"},
		dietary:  []string{"dairy-free", "high-protein"},
	},
}

var seedFreezer = []service.FreezerItemInput{
	{ItemName: "Chicken stock", Quantity: 6, Unit: string(types.UnitContainers), Category: string(types.FreezerPreparedComponents)},
	{ItemName: "Short ribs", Quantity: 2, Unit: string(types.UnitPackages), Category: string(types.FreezerProteins)},
	{ItemName: "Peas", Quantity: 1, Unit: string(types.UnitBags), Category: string(types.FreezerVegetables)},
	{ItemName: "Pesto cubes", Quantity: 12, Unit: string(types.UnitCubes), Category: string(types.FreezerFlavorArsenal)},
}

// seedCatalogue loads the sample data. Metadata goes through the draft path
// so it is sanitized like any user edit.
func seedCatalogue(ctx context.Context, recipes *service.RecipeService, freezer *service.FreezerService, out io.Writer) error {
	for _, s := range seedRecipes {
		created, err := recipes.CreateRecipe(ctx, s.recipe)
		if err != nil {
			return err
		}
		f := string(s.folder)
		patch := metadata.Patch{
			Rating:           &s.rating,
			TriedStatus:      &s.tried,
			PhysicalLocation: &f,
			Category:         &s.category,
			DietaryTags:      &s.dietary,
		}
		if _, err := recipes.StageEdit(ctx, created.ID, patch); err != nil {
			return err
		}
		if _, err := recipes.SaveDraft(ctx, created.ID, false); err != nil {
			return err
		}
		fmt.Fprintf(out, "recipe  %s  %s\n", created.ID, created.Title)
	}

	for _, in := range seedFreezer {
		item, err := freezer.CreateItem(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "freezer %s  %s\n", item.ID, item.ItemName)
	}
	return nil
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample recipes and freezer items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			return seedCatalogue(cmd.Context(), ctx.recipeService(), ctx.freezerService(), cmd.OutOrStdout())
		},
	}
}
