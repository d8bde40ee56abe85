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

// ErrNoEligibleActors is the only batch-level failure of a scheduler run:
// there was nothing to act on at all. Per-item failures are logged and
// skipped, never surfaced.
var ErrNoEligibleActors = errors.New("no active actors to generate for")

const (
	// recentPostsForPrompt is how many recent bodies the provider sees.
	recentPostsForPrompt = 5
	// recentPostsForSimilarity is how many accepted posts a candidate is
	// compared against.
	recentPostsForSimilarity = 10
	// maxPublishJitter spreads publish timestamps so one run does not land
	// every post on the same instant.
	maxPublishJitter = 60 * time.Minute
)

// Result reports what one scheduler run did.
type Result struct {
	Eligible int `json:"eligible"`
	Created  int `json:"created"`
}

// PostScheduler generates new posts for every active actor.
type PostScheduler struct {
	actors   repositories.ActorRepository
	posts    repositories.PostRepository
	provider Provider
	fanout   *notifications.FanOutEngine
	mentions MentionProcessor
	picker   Picker
	log      *zap.Logger

	// MaxPostsPerActor is the upper bound of the per-actor candidate count.
	MaxPostsPerActor int
}

// MentionProcessor resolves @handles in generated text to known actors.
type MentionProcessor interface {
	Process(text string) ([]models.Actor, error)
}

// NewPostScheduler creates a PostScheduler with the default candidate bound.
func NewPostScheduler(
	actors repositories.ActorRepository,
	posts repositories.PostRepository,
	provider Provider,
	fanout *notifications.FanOutEngine,
	mentions MentionProcessor,
	picker Picker,
	log *zap.Logger,
) *PostScheduler {
	return &PostScheduler{
		actors:           actors,
		posts:            posts,
		provider:         provider,
		fanout:           fanout,
		mentions:         mentions,
		picker:           picker,
		log:              log,
		MaxPostsPerActor: 3,
	}
}

// Run generates posts for every active actor. Each actor is processed
// independently; a provider or persistence failure for one candidate is
// logged and skipped without aborting the rest of the run.
func (s *PostScheduler) Run(ctx context.Context) (Result, error) {
	actors, err := s.actors.ListActive()
	if err != nil {
		return Result{}, err
	}
	if len(actors) == 0 {
		return Result{}, ErrNoEligibleActors
	}

	result := Result{Eligible: len(actors)}
	for _, actor := range actors {
		result.Created += s.generateForActor(ctx, actor)
	}

	s.log.Info("post generation run finished",
		zap.Int("actors", result.Eligible),
		zap.Int("created", result.Created))
	return result, nil
}

func (s *PostScheduler) generateForActor(ctx context.Context, actor models.Actor) int {
	recent, err := s.posts.GetRecentByActor(ctx, actor.ID, recentPostsForSimilarity)
	if err != nil {
		s.log.Warn("failed to load recent posts, skipping actor",
			zap.Uint("actor_id", actor.ID), zap.Error(err))
		return 0
	}

	recentBodies := make([]string, 0, len(recent))
	for _, p := range recent {
		recentBodies = append(recentBodies, p.Content)
	}
	promptBodies := recentBodies
	if len(promptBodies) > recentPostsForPrompt {
		promptBodies = promptBodies[:recentPostsForPrompt]
	}

	created := 0
	count := s.picker.CountBetween(1, s.MaxPostsPerActor)
	for i := 0; i < count; i++ {
		candidate, err := s.provider.GeneratePost(ctx, PostPrompt{Actor: actor, RecentPosts: promptBodies})
		if err != nil {
			s.log.Warn("post generation failed",
				zap.Uint("actor_id", actor.ID), zap.String("handle", actor.Handle), zap.Error(err))
			continue
		}
		if candidate.Content == "" {
			s.log.Warn("provider returned empty post content, skipping",
				zap.Uint("actor_id", actor.ID), zap.String("handle", actor.Handle))
			continue
		}
		if IsSimilar(candidate.Content, recentBodies) {
			s.log.Info("candidate too similar to recent posts, skipping",
				zap.Uint("actor_id", actor.ID), zap.String("handle", actor.Handle))
			continue
		}

		post := s.buildPost(actor, candidate)
		mentioned, err := s.mentions.Process(post.Content)
		if err != nil {
			s.log.Warn("mention resolution failed",
				zap.Uint("actor_id", actor.ID), zap.Error(err))
		}
		for _, m := range mentioned {
			post.Mentions = append(post.Mentions, m.Handle)
		}

		if err := s.posts.CreatePost(ctx, post); err != nil {
			s.log.Warn("failed to persist post",
				zap.Uint("actor_id", actor.ID), zap.Error(err))
			continue
		}
		created++
		// Accepted posts join the comparison set so a later candidate in
		// the same run cannot duplicate them.
		recentBodies = append([]string{post.Content}, recentBodies...)

		s.emitEvents(ctx, actor, post, mentioned)
	}
	return created
}

func (s *PostScheduler) buildPost(actor models.Actor, candidate *GeneratedPost) *models.Post {
	now := time.Now()
	jitter := time.Duration(s.picker.Index(int(maxPublishJitter/time.Minute)+1)) * time.Minute
	return &models.Post{
		ActorID:       actor.ID,
		Content:       candidate.Content,
		ImageURL:      candidate.ImageDescription,
		Hashtags:      candidate.Hashtags,
		Mood:          candidate.Mood,
		IsAIGenerated: true,
		Generation: &models.GenerationMeta{
			Model:       s.provider.Model(),
			Temperature: s.provider.Temperature(),
			GeneratedAt: now,
			Tags:        candidate.Hashtags,
		},
		PublishedAt: now.Add(-jitter),
	}
}

func (s *PostScheduler) emitEvents(ctx context.Context, actor models.Actor, post *models.Post, mentioned []models.Actor) {
	postID := post.ID.Hex()

	if err := s.fanout.Dispatch(ctx, notifications.NewPostEvent(actor.ID, postID)); err != nil {
		s.log.Warn("new-post fan-out failed", zap.String("post_id", postID), zap.Error(err))
	}

	for _, m := range mentioned {
		if err := s.fanout.Dispatch(ctx, notifications.MentionEvent(actor.ID, m.ID, postID)); err != nil {
			s.log.Warn("mention fan-out failed",
				zap.String("post_id", postID), zap.Uint("mentioned_actor_id", m.ID), zap.Error(err))
		}
	}
}
