package generation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"gorm.io/gorm"
)

// stubProvider returns scripted responses and records the prompts it saw.
type stubProvider struct {
	posts        []*GeneratedPost
	postErrs     []error
	comments     []string
	commentErrs  []error
	postPrompts  []PostPrompt
	commPrompts  []CommentPrompt
	postCalls    int
	commentCalls int
}

func (p *stubProvider) GeneratePost(_ context.Context, prompt PostPrompt) (*GeneratedPost, error) {
	i := p.postCalls
	p.postCalls++
	p.postPrompts = append(p.postPrompts, prompt)
	if i < len(p.postErrs) && p.postErrs[i] != nil {
		return nil, p.postErrs[i]
	}
	if i < len(p.posts) {
		return p.posts[i], nil
	}
	return &GeneratedPost{Content: fmt.Sprintf("filler%d words%d entirely%d fresh%d", i, i, i, i)}, nil
}

func (p *stubProvider) GenerateComment(_ context.Context, prompt CommentPrompt) (string, error) {
	i := p.commentCalls
	p.commentCalls++
	p.commPrompts = append(p.commPrompts, prompt)
	if i < len(p.commentErrs) && p.commentErrs[i] != nil {
		return "", p.commentErrs[i]
	}
	if i < len(p.comments) {
		return p.comments[i], nil
	}
	return "nice post!", nil
}

func (p *stubProvider) Model() string        { return "stub-model" }
func (p *stubProvider) Temperature() float64 { return 0.9 }

// scriptedPicker pops pre-seeded values; it falls back to minimums so tests
// stay deterministic even when the script runs out.
type scriptedPicker struct {
	counts  []int
	indexes []int
}

func (p *scriptedPicker) CountBetween(min, max int) int {
	if len(p.counts) == 0 {
		return min
	}
	v := p.counts[0]
	p.counts = p.counts[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (p *scriptedPicker) Index(n int) int {
	if len(p.indexes) == 0 {
		return 0
	}
	v := p.indexes[0]
	p.indexes = p.indexes[1:]
	return v % n
}

// memActorRepo is an in-memory ActorRepository.
type memActorRepo struct {
	actors []models.Actor
}

func (r *memActorRepo) ListActive() ([]models.Actor, error) {
	var active []models.Actor
	for _, a := range r.actors {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (r *memActorRepo) GetActorByID(id uint) (*models.Actor, error) {
	for _, a := range r.actors {
		if a.ID == id {
			actor := a
			return &actor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memActorRepo) GetByHandles(handles []string) ([]models.Actor, error) {
	var found []models.Actor
	for _, h := range handles {
		for _, a := range r.actors {
			if a.Handle == h {
				found = append(found, a)
			}
		}
	}
	return found, nil
}

func (r *memActorRepo) GetByUserID(userID uint) (*models.Actor, error) {
	for _, a := range r.actors {
		if a.UserID != nil && *a.UserID == userID {
			actor := a
			return &actor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memActorRepo) IncrementFollowersCount(actorID uint, delta int) error {
	for i := range r.actors {
		if r.actors[i].ID == actorID {
			r.actors[i].FollowersCount += delta
		}
	}
	return nil
}

// memPostRepo is an in-memory PostRepository.
type memPostRepo struct {
	mu    sync.Mutex
	posts []*models.Post
}

func (r *memPostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.PublishedAt.IsZero() {
		post.PublishedAt = post.CreatedAt
	}
	r.posts = append(r.posts, post)
	return nil
}

func (r *memPostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPostRepo) GetRecentByActor(_ context.Context, actorID uint, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	// newest first
	for i := len(r.posts) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.posts[i].ActorID == actorID {
			out = append(out, *r.posts[i])
		}
	}
	return out, nil
}

func (r *memPostRepo) GetUnderCommented(_ context.Context, since time.Time, maxComments int) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		p := r.posts[i]
		if !p.PublishedAt.Before(since) && p.CommentsCount < maxComments {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPostRepo) IncrementLikesCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.LikesCount++ })
}

func (r *memPostRepo) DecrementLikesCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.LikesCount-- })
}

func (r *memPostRepo) IncrementCommentsCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.CommentsCount++ })
}

func (r *memPostRepo) DecrementCommentsCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.CommentsCount-- })
}

func (r *memPostRepo) adjust(postID string, f func(*models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == postID {
			f(p)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// memCommentRepo is an in-memory CommentRepository enforcing the
// (post, actor) uniqueness constraint like the Postgres index does.
type memCommentRepo struct {
	comments []*models.Comment
	nextID   uint
}

func (r *memCommentRepo) CreateComment(comment *models.Comment) error {
	if comment.ActorID != nil {
		for _, c := range r.comments {
			if c.ActorID != nil && c.PostID == comment.PostID && *c.ActorID == *comment.ActorID {
				return repositories.ErrDuplicateComment
			}
		}
	}
	r.nextID++
	comment.ID = r.nextID
	r.comments = append(r.comments, comment)
	return nil
}

func (r *memCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) HasActorCommented(postID string, actorID uint) (bool, error) {
	for _, c := range r.comments {
		if c.ActorID != nil && c.PostID == postID && *c.ActorID == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCommentRepo) DeleteComment(id uint) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// memFollowRepo is an in-memory FollowRepository.
type memFollowRepo struct {
	follows []models.Follow
}

func (r *memFollowRepo) CreateFollow(follow *models.Follow) error {
	r.follows = append(r.follows, *follow)
	return nil
}

func (r *memFollowRepo) DeleteFollow(userID, actorID uint) error {
	for i, f := range r.follows {
		if f.UserID == userID && f.ActorID == actorID {
			r.follows = append(r.follows[:i], r.follows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memFollowRepo) IsFollowing(userID, actorID uint) (bool, error) {
	for _, f := range r.follows {
		if f.UserID == userID && f.ActorID == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFollowRepo) GetFollowerIDs(actorID uint) ([]uint, error) {
	var ids []uint
	for _, f := range r.follows {
		if f.ActorID == actorID {
			ids = append(ids, f.UserID)
		}
	}
	return ids, nil
}

func (r *memFollowRepo) GetFollowersCount(actorID uint) (int64, error) {
	ids, _ := r.GetFollowerIDs(actorID)
	return int64(len(ids)), nil
}

// memSettingsRepo is an in-memory NotificationSettingsRepository.
type memSettingsRepo struct {
	settings map[uint]*models.NotificationSettings
}

func (r *memSettingsRepo) GetOrCreate(userID uint) (*models.NotificationSettings, error) {
	if r.settings == nil {
		r.settings = make(map[uint]*models.NotificationSettings)
	}
	if s, ok := r.settings[userID]; ok {
		return s, nil
	}
	s := models.DefaultNotificationSettings(userID)
	r.settings[userID] = s
	return s, nil
}

func (r *memSettingsRepo) Update(settings *models.NotificationSettings) error {
	if r.settings == nil {
		r.settings = make(map[uint]*models.NotificationSettings)
	}
	r.settings[settings.UserID] = settings
	return nil
}

// memNotificationRepo is an in-memory NotificationRepository.
type memNotificationRepo struct {
	rows   []*models.Notification
	nextID uint
}

func (r *memNotificationRepo) CreateNotification(n *models.Notification) error {
	r.nextID++
	n.ID = r.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, n)
	return nil
}

func (r *memNotificationRepo) ExistsSince(n *models.Notification, since time.Time) (bool, error) {
	for _, row := range r.rows {
		if row.Type != n.Type || row.RecipientID != n.RecipientID || row.CreatedAt.Before(since) {
			continue
		}
		if n.ActorID != nil && (row.ActorID == nil || *row.ActorID != *n.ActorID) {
			continue
		}
		if n.PostID != "" && row.PostID != n.PostID {
			continue
		}
		if n.CommentID != nil && (row.CommentID == nil || *row.CommentID != *n.CommentID) {
			continue
		}
		if n.FollowedActorID != nil && (row.FollowedActorID == nil || *row.FollowedActorID != *n.FollowedActorID) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *memNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var all []models.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].RecipientID == recipientID {
			all = append(all, *r.rows[i])
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkAsRead(recipientID, notificationID uint) error {
	for _, row := range r.rows {
		if row.ID == notificationID && row.RecipientID == recipientID {
			row.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, row := range r.rows {
		if row.RecipientID == recipientID {
			row.IsRead = true
		}
	}
	return nil
}

// noopMentions resolves nothing.
type noopMentions struct{}

func (noopMentions) Process(string) ([]models.Actor, error) { return nil, nil }
