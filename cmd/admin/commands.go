package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"folio/internal/database"
	"folio/internal/featureflags"
	"folio/internal/repository"
	"folio/internal/seed"
	"folio/internal/service"

	"github.com/spf13/cobra"
)

var (
	seedPosts    int
	seedComments int
	seedValue    int64
	seedClean    bool
	seedFixtures string

	listLimit  int
	listOffset int

	postIn service.PostInput
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with sample posts and comments",
	Long: `Creates fake posts across the default categories with threaded
comments. With --fixtures, the posts and comments are read from a
YAML file instead.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List, create and delete posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPostsList,
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Args:  cobra.NoArgs,
	RunE:  runPostsCreate,
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsDelete,
}

func runCreateDB(cmd *cobra.Command, args []string) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database tables created")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	var (
		sum seed.Summary
		err error
	)
	if seedFixtures != "" {
		var fx *seed.Fixtures
		fx, err = seed.LoadFixtures(seedFixtures)
		if err != nil {
			return err
		}
		if seedClean {
			if err := seed.Clean(db.WithContext(ctx)); err != nil {
				return err
			}
		}
		sum, err = fx.Apply(ctx, db)
	} else {
		sum, err = seed.Run(ctx, db, seed.Options{
			Posts:           seedPosts,
			CommentsPerPost: seedComments,
			Seed:            seedValue,
			Clean:           seedClean,
		})
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d posts and %d comments\n", sum.Posts, sum.Comments)
	return nil
}

func runPostsList(cmd *cobra.Command, args []string) error {
	page, err := adminService().List(commandContext(cmd), listLimit, listOffset)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tTITLE")
	for _, p := range page.Posts {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Category, p.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d posts\n", len(page.Posts), page.Total)
	return nil
}

func runPostsCreate(cmd *cobra.Command, args []string) error {
	post, err := adminService().Create(commandContext(cmd), postIn)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created post %d: %s\n", post.ID, post.Title)
	return nil
}

func runPostsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid post id %q", args[0])
	}
	if err := adminService().Delete(commandContext(cmd), uint(id)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %d\n", id)
	return nil
}

func adminService() *service.PostAdminService {
	raw := ""
	if cfg != nil {
		raw = cfg.FeatureFlags
	}
	return service.NewPostAdminService(repository.NewPostRepository(db), featureflags.NewManager(raw))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
