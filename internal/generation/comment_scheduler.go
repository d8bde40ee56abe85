package generation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/notifications"
	"github.com/glesende/iagram-sub000/internal/repositories"
)

// ErrNoEligiblePosts signals that no post qualified for commenting. Like
// ErrNoEligibleActors it marks an empty batch, not a failed one.
var ErrNoEligiblePosts = errors.New("no posts eligible for comment generation")

// CommentScheduler generates actor comments on recent, under-commented posts.
type CommentScheduler struct {
	actors   repositories.ActorRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	provider Provider
	fanout   *notifications.FanOutEngine
	mentions MentionProcessor
	picker   Picker
	log      *zap.Logger

	// MaxCommentsPerPost bounds the per-post target comment count.
	MaxCommentsPerPost int
	// MaxExistingComments excludes posts that already have this many comments.
	MaxExistingComments int
	// Lookback limits candidate posts to this publication window.
	Lookback time.Duration
}

// NewCommentScheduler creates a CommentScheduler with the default bounds.
func NewCommentScheduler(
	actors repositories.ActorRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	provider Provider,
	fanout *notifications.FanOutEngine,
	mentions MentionProcessor,
	picker Picker,
	log *zap.Logger,
) *CommentScheduler {
	return &CommentScheduler{
		actors:              actors,
		posts:               posts,
		comments:            comments,
		provider:            provider,
		fanout:              fanout,
		mentions:            mentions,
		picker:              picker,
		log:                 log,
		MaxCommentsPerPost:  2,
		MaxExistingComments: 5,
		Lookback:            48 * time.Hour,
	}
}

// Run selects recent posts with fewer comments than the ceiling, newest
// first, and generates up to MaxCommentsPerPost comments on each. Any error
// while processing one post is logged with the post id and the run moves on.
func (s *CommentScheduler) Run(ctx context.Context) (Result, error) {
	actors, err := s.actors.ListActive()
	if err != nil {
		return Result{}, err
	}
	byID := make(map[uint]models.Actor, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}

	posts, err := s.posts.GetUnderCommented(ctx, time.Now().Add(-s.Lookback), s.MaxExistingComments)
	if err != nil {
		return Result{}, err
	}
	if len(posts) == 0 {
		return Result{}, ErrNoEligiblePosts
	}
	if len(actors) == 0 {
		return Result{}, ErrNoEligibleActors
	}

	result := Result{Eligible: len(posts)}
	for _, post := range posts {
		created, err := s.commentOnPost(ctx, post, actors, byID)
		if err != nil {
			s.log.Warn("comment generation failed for post",
				zap.String("post_id", post.ID.Hex()), zap.Error(err))
			continue
		}
		result.Created += created
	}

	s.log.Info("comment generation run finished",
		zap.Int("posts", result.Eligible),
		zap.Int("created", result.Created))
	return result, nil
}

func (s *CommentScheduler) commentOnPost(ctx context.Context, post models.Post, actors []models.Actor, byID map[uint]models.Actor) (int, error) {
	author, ok := byID[post.ActorID]
	if !ok {
		// Author deactivated or deleted since publication; the directory
		// lookup is still required for the relationship string.
		loaded, err := s.actors.GetActorByID(post.ActorID)
		if err != nil {
			return 0, err
		}
		author = *loaded
	}

	eligible := make([]models.Actor, 0, len(actors))
	for _, a := range actors {
		if a.ID != post.ActorID {
			eligible = append(eligible, a)
		}
	}

	postID := post.ID.Hex()
	created := 0
	target := s.picker.CountBetween(1, s.MaxCommentsPerPost)
	for i := 0; i < target; i++ {
		if len(eligible) == 0 {
			s.log.Info("no eligible commenter for post", zap.String("post_id", postID))
			continue
		}
		commenter := eligible[s.picker.Index(len(eligible))]

		commented, err := s.comments.HasActorCommented(postID, commenter.ID)
		if err != nil {
			return created, err
		}
		if commented {
			s.log.Info("actor already commented on post, skipping",
				zap.String("post_id", postID), zap.Uint("actor_id", commenter.ID))
			continue
		}

		text, err := s.provider.GenerateComment(ctx, CommentPrompt{
			Commenter:    commenter,
			PostContent:  post.Content,
			AuthorName:   author.DisplayName,
			Relationship: relationshipBetween(commenter, author),
		})
		if err != nil {
			s.log.Warn("comment generation failed",
				zap.String("post_id", postID), zap.Uint("actor_id", commenter.ID), zap.Error(err))
			continue
		}
		if text == "" {
			s.log.Warn("provider returned empty comment, skipping",
				zap.String("post_id", postID), zap.Uint("actor_id", commenter.ID))
			continue
		}

		comment := models.NewActorComment(postID, commenter.ID, text, &models.GenerationMeta{
			Model:       s.provider.Model(),
			Temperature: s.provider.Temperature(),
			GeneratedAt: time.Now(),
		})
		if err := s.comments.CreateComment(comment); err != nil {
			if errors.Is(err, repositories.ErrDuplicateComment) {
				// A concurrent worker inserted first; the unique index makes
				// this a skip, not a failure.
				s.log.Info("duplicate comment suppressed by storage constraint",
					zap.String("post_id", postID), zap.Uint("actor_id", commenter.ID))
				continue
			}
			return created, err
		}

		if err := s.posts.IncrementCommentsCount(ctx, postID); err != nil {
			return created + 1, err
		}
		created++

		s.emitEvents(ctx, commenter, postID, comment, text)
	}
	return created, nil
}

func (s *CommentScheduler) emitEvents(ctx context.Context, commenter models.Actor, postID string, comment *models.Comment, text string) {
	if err := s.fanout.Dispatch(ctx, notifications.CommentEvent(commenter.ID, postID, comment.ID)); err != nil {
		s.log.Warn("comment fan-out failed", zap.String("post_id", postID), zap.Error(err))
	}

	mentioned, err := s.mentions.Process(text)
	if err != nil {
		s.log.Warn("mention resolution failed", zap.String("post_id", postID), zap.Error(err))
		return
	}
	for _, m := range mentioned {
		if err := s.fanout.Dispatch(ctx, notifications.MentionEvent(commenter.ID, m.ID, postID)); err != nil {
			s.log.Warn("mention fan-out failed",
				zap.String("post_id", postID), zap.Uint("mentioned_actor_id", m.ID), zap.Error(err))
		}
	}
}
