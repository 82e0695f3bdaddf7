// Command admin provides maintenance utilities for the blog database.
package main

import (
	"fmt"
	"os"

	"folio/internal/bootstrap"
	"folio/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global state, set up before any subcommand runs.
	cfg *config.Config
	db  *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Blog maintenance commands",
	Long: `admin manages the blog database directly: it creates the schema,
seeds fake or hand-written content and edits posts without going
through the HTTP admin routes.

Configuration is read the same way as the server (.env, config.yml,
environment variables).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return nil
		}
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, _, err = bootstrap.InitRuntime(cfg, bootstrap.Options{
			Migrate:   cmd == createDBCmd,
			SkipRedis: true,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	},
}

var createDBCmd = &cobra.Command{
	Use:   "create-db",
	Short: "Create the post and comment tables",
	Long: `Migrates the schema for the configured driver. Outside production the
server migrates on connect, so this is mostly useful for production
databases.`,
	Args: cobra.NoArgs,
	RunE: runCreateDB,
}

func init() {
	seedCmd.Flags().IntVar(&seedPosts, "posts", 12, "Number of fake posts to create")
	seedCmd.Flags().IntVar(&seedComments, "comments", 5, "Number of fake comments per post")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Fake data seed (0 picks a random one)")
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "Delete all posts and comments first")
	seedCmd.Flags().StringVar(&seedFixtures, "fixtures", "", "Load posts from a YAML fixtures file instead of fake data")

	postsListCmd.Flags().IntVar(&listLimit, "limit", 20, "Page size")
	postsListCmd.Flags().IntVar(&listOffset, "offset", 0, "Rows to skip")

	postsCreateCmd.Flags().StringVar(&postIn.Title, "title", "", "Post title (required)")
	postsCreateCmd.Flags().StringVar(&postIn.Content, "content", "", "Post body (required)")
	postsCreateCmd.Flags().StringVar(&postIn.ImageURL, "image-url", "", "Cover image URL")
	postsCreateCmd.Flags().StringVar(&postIn.Category, "category", "", "Category name (required)")
	_ = postsCreateCmd.MarkFlagRequired("title")
	_ = postsCreateCmd.MarkFlagRequired("content")
	_ = postsCreateCmd.MarkFlagRequired("category")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsDeleteCmd)

	rootCmd.AddCommand(createDBCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(postsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
