package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestHashPINCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("1357\n"))
	cmd.SetArgs([]string{"hash-pin"})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("1357")))

	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetArgs([]string{"hash-pin"})
	assert.Error(t, cmd.Execute())
}

func TestPrintInventory(t *testing.T) {
	stock := models.FreezerItem{ID: uuid.New(), ItemName: "Beef stock", Quantity: 1.5, Unit: types.UnitContainers, Category: types.FreezerPreparedComponents}
	peas := models.FreezerItem{ID: uuid.New(), ItemName: "Peas", Quantity: 12, Unit: types.UnitBags, Category: types.FreezerVegetables}
	items := []models.FreezerItem{stock, peas}
	inv := &service.Inventory{
		Groups:   service.GroupByCategory(items),
		LowStock: service.LowStock(items, 5),
		Total:    len(items),
	}

	var out bytes.Buffer
	printInventory(&out, inv)
	text := out.String()
	assert.Contains(t, text, "Beef stock")
	assert.Contains(t, text, "1.5")
	assert.Contains(t, text, "LOW")
	assert.Equal(t, 1, strings.Count(text, "LOW"))
	assert.Contains(t, text, "2 items, 1 low on stock")

	out.Reset()
	printInventory(&out, &service.Inventory{})
	assert.Equal(t, "Freezer is empty\n", out.String())
}

func TestRenderTable(t *testing.T) {
	rendered := renderTable([]string{"Facet", "Value"}, [][]string{{"folder"}, {"category", "soup"}})
	assert.Contains(t, rendered, "FACET")
	assert.Contains(t, rendered, "soup")
	assert.Empty(t, renderTable(nil, nil))
}

func TestSeedCatalogue(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := &commandContext{db: db, log: zerolog.Nop()}

	var out bytes.Buffer
	require.NoError(t, seedCatalogue(context.Background(), ctx.recipeService(), ctx.freezerService(), &out))
	assert.Equal(t, len(seedRecipes)+len(seedFreezer), strings.Count(out.String(), "\n"))

	list, err := ctx.recipeService().List(context.Background(), filter.Criteria{Category: "soup"})
	require.NoError(t, err)
	require.Len(t, list.Recipes, 1)
	soup := list.Recipes[0].Metadata
	assert.Equal(t, 4, soup.Rating)
	assert.Equal(t, types.Folders[11], soup.PhysicalLocation)
	assert.Len(t, soup.DietaryTags, 3)
	assert.Len(t, soup.YourNotes, 1)
	assert.Len(t, list.Facets.Folders, 3)

	inv, err := ctx.freezerService().Inventory(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, len(seedFreezer), inv.Total)
	require.Len(t, inv.LowStock, 1)
	assert.Equal(t, "Peas", inv.LowStock[0].ItemName)
}
