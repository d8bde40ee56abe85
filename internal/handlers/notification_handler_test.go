package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glesende/iagram-sub000/internal/models"
)

type stubActorDirectory struct{}

func (stubActorDirectory) ListActive() ([]models.Actor, error) { return nil, nil }

func (stubActorDirectory) GetActorByID(uint) (*models.Actor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubActorDirectory) GetByHandles([]string) ([]models.Actor, error) { return nil, nil }

func (stubActorDirectory) GetByUserID(uint) (*models.Actor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubActorDirectory) IncrementFollowersCount(uint, int) error { return nil }

type stubSettingsStore struct{}

func (stubSettingsStore) GetOrCreate(userID uint) (*models.NotificationSettings, error) {
	return models.DefaultNotificationSettings(userID), nil
}

func (stubSettingsStore) Update(*models.NotificationSettings) error { return nil }

// fakeNotificationStore mirrors the recipient scoping of the Postgres
// implementation: mark operations only ever touch the caller's rows.
type fakeNotificationStore struct {
	rows []*models.Notification
}

func (s *fakeNotificationStore) CreateNotification(n *models.Notification) error {
	s.rows = append(s.rows, n)
	return nil
}

func (s *fakeNotificationStore) ExistsSince(*models.Notification, time.Time) (bool, error) {
	return false, nil
}

func (s *fakeNotificationStore) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range s.rows {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeNotificationStore) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range s.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkAsRead(recipientID, notificationID uint) error {
	for _, n := range s.rows {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllAsRead(recipientID uint) error {
	for _, n := range s.rows {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func newNotificationRequest(method, target string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
	return c, rec
}

func TestNotificationHandler_MarkAllAsRead(t *testing.T) {
	store := &fakeNotificationStore{rows: []*models.Notification{
		{ID: 1, Type: models.NotificationTypeLike, RecipientID: 10},
		{ID: 2, Type: models.NotificationTypeFollow, RecipientID: 10},
		{ID: 3, Type: models.NotificationTypeLike, RecipientID: 99},
	}}
	handler := NewNotificationHandler(store, stubSettingsStore{}, stubActorDirectory{})

	c, rec := newNotificationRequest(http.MethodPut, "/notifications/read-all", 10)
	require.NoError(t, handler.MarkAllAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err := store.GetUnreadCount(10)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Repeating the call changes nothing: mark-all-read is a fixed point.
	c, rec = newNotificationRequest(http.MethodPut, "/notifications/read-all", 10)
	require.NoError(t, handler.MarkAllAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err = store.GetUnreadCount(10)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The other recipient's rows stay untouched.
	otherCount, err := store.GetUnreadCount(99)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherCount)
}

func TestNotificationHandler_MarkAsReadScopedToRecipient(t *testing.T) {
	store := &fakeNotificationStore{rows: []*models.Notification{
		{ID: 1, Type: models.NotificationTypeLike, RecipientID: 10},
		{ID: 3, Type: models.NotificationTypeLike, RecipientID: 99},
	}}
	handler := NewNotificationHandler(store, stubSettingsStore{}, stubActorDirectory{})

	// Marking another recipient's notification is a no-op.
	c, _ := newNotificationRequest(http.MethodPut, "/notifications/3/read", 10)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, handler.MarkAsRead(c))

	otherCount, err := store.GetUnreadCount(99)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherCount)

	// Marking the caller's own notification works.
	c, _ = newNotificationRequest(http.MethodPut, "/notifications/1/read", 10)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, handler.MarkAsRead(c))

	count, err := store.GetUnreadCount(10)
	require.NoError(t, err)
	assert.Zero(t, count)
}
