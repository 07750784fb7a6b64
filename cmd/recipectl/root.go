package main

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/assistant"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/service"
)

type commandContext struct {
	once sync.Once
	cfg  *config.Config
	db   *gorm.DB
	log  zerolog.Logger
	err  error
}

// ensure loads configuration and opens the database on first use.
func (c *commandContext) ensure() error {
	c.once.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			c.err = err
			return
		}
		c.cfg = cfg
		c.log = logging.New(logging.Options{Level: cfg.LogLevel, Format: "console"})

		db, err := database.Open(cfg)
		if err != nil {
			c.err = err
			return
		}
		if err := database.RunMigrations(db, c.log); err != nil {
			c.err = err
			return
		}
		c.db = db
	})
	return c.err
}

func (c *commandContext) recipeService() *service.RecipeService {
	return service.NewRecipeService(
		database.NewRecipeRepository(c.db),
		service.NewMemoryDraftStore(),
		assistant.New(assistant.Unconfigured{}, c.log),
		database.NewFreezerRepository(c.db),
		c.log,
	)
}

func (c *commandContext) freezerService() *service.FreezerService {
	return service.NewFreezerService(database.NewFreezerRepository(c.db), c.log)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Recipe catalogue maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newMigrateMetadataCommand(ctx))
	rootCmd.AddCommand(newFacetsCommand(ctx))
	rootCmd.AddCommand(newInventoryCommand(ctx))
	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newHashPINCommand())

	return rootCmd
}
