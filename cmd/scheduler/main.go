// The scheduler command runs the content pipeline's batch jobs. It is meant
// to be invoked periodically by cron or a job queue; each subcommand is a
// single idempotent run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glesende/iagram-sub000/internal/generation"
	"github.com/glesende/iagram-sub000/internal/mentions"
	"github.com/glesende/iagram-sub000/internal/notifications"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/glesende/iagram-sub000/pkg/config"
	"github.com/glesende/iagram-sub000/pkg/logger"
)

var (
	maxPosts      int
	maxComments   int
	maxExisting   int
	lookbackHours int
)

var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Batch jobs for the automated content pipeline",
}

var generatePostsCmd = &cobra.Command{
	Use:   "generate-posts",
	Short: "Generate new posts for every active actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(ctx context.Context, p *pipeline) error {
			scheduler := generation.NewPostScheduler(
				p.actors, p.posts, p.provider, p.fanout, p.mentions, p.picker, p.log)
			if maxPosts > 0 {
				scheduler.MaxPostsPerActor = maxPosts
			}

			result, err := scheduler.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("generated %d posts for %d actors\n", result.Created, result.Eligible)
			return nil
		})
	},
}

var generateCommentsCmd = &cobra.Command{
	Use:   "generate-comments",
	Short: "Generate actor comments on recent under-commented posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(func(ctx context.Context, p *pipeline) error {
			scheduler := generation.NewCommentScheduler(
				p.actors, p.posts, p.comments, p.provider, p.fanout, p.mentions, p.picker, p.log)
			if maxComments > 0 {
				scheduler.MaxCommentsPerPost = maxComments
			}
			if maxExisting > 0 {
				scheduler.MaxExistingComments = maxExisting
			}
			if lookbackHours > 0 {
				scheduler.Lookback = time.Duration(lookbackHours) * time.Hour
			}

			result, err := scheduler.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("generated %d comments across %d posts\n", result.Created, result.Eligible)
			return nil
		})
	},
}

// pipeline bundles the dependencies shared by both batch jobs.
type pipeline struct {
	actors   repositories.ActorRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	provider generation.Provider
	fanout   *notifications.FanOutEngine
	mentions generation.MentionProcessor
	picker   generation.Picker
	log      *zap.Logger
}

func withPipeline(run func(ctx context.Context, p *pipeline) error) error {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	provider, err := generation.NewGeminiProvider(ctx, generation.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize text generation provider: %w", err)
	}

	actorRepo := repositories.NewPostgresActorRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database("iagram"))
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	settingsRepo := repositories.NewPostgresNotificationSettingsRepository(db.Postgres)

	fanout := notifications.NewFanOutEngine(actorRepo, postRepo, followRepo, settingsRepo, notificationRepo, zapLogger)

	return run(ctx, &pipeline{
		actors:   actorRepo,
		posts:    postRepo,
		comments: commentRepo,
		provider: provider,
		fanout:   fanout,
		mentions: mentions.NewResolver(actorRepo),
		picker:   generation.NewPicker(time.Now().UnixNano()),
		log:      zapLogger,
	})
}

func main() {
	generatePostsCmd.Flags().IntVar(&maxPosts, "max-posts", 0, "upper bound of posts per actor (default 3)")
	generateCommentsCmd.Flags().IntVar(&maxComments, "max-comments", 0, "upper bound of comments per post (default 2)")
	generateCommentsCmd.Flags().IntVar(&maxExisting, "max-existing", 0, "skip posts with at least this many comments (default 5)")
	generateCommentsCmd.Flags().IntVar(&lookbackHours, "lookback-hours", 0, "only comment on posts published within this window (default 48)")

	rootCmd.AddCommand(generatePostsCmd)
	rootCmd.AddCommand(generateCommentsCmd)

	if err := rootCmd.Execute(); err != nil {
		// An empty batch is the only run-level failure; per-item errors were
		// already logged and skipped. It still exits non-zero so cron can
		// tell it apart from a run that created nothing.
		if errors.Is(err, generation.ErrNoEligibleActors) || errors.Is(err, generation.ErrNoEligiblePosts) {
			log.Printf("nothing to do: %v", err)
		}
		os.Exit(1)
	}
}
