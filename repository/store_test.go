package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/princinho/portfoliobackend/database"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) *repository.Store {
		return repository.NewMemoryStore()
	})
}

// Runs the same suite against a real server when MONGODB_TEST_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	runStoreSuite(t, func(t *testing.T) *repository.Store {
		ctx := context.Background()
		name := fmt.Sprintf("portfolio_test_%d", time.Now().UnixNano())
		db, disconnect, err := database.OpenDatabase(ctx, uri, name)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = disconnect(context.Background())
		})
		require.NoError(t, repository.EnsureIndexes(ctx, db))
		return repository.NewMongoStore(db)
	})
}

func newDefault() models.Portfolio {
	return models.DefaultPortfolio(time.Now().UTC())
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Run("admins", func(t *testing.T) { testAdmins(t, newStore(t)) })
	t.Run("portfolio", func(t *testing.T) { testPortfolio(t, newStore(t)) })
	t.Run("portfolio created once", func(t *testing.T) { testPortfolioCreatedOnce(t, newStore(t)) })
	t.Run("messages", func(t *testing.T) { testMessages(t, newStore(t)) })
}

func testAdmins(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &models.Admin{Email: "a@x.com", Name: "A", Role: models.RoleSuperAdmin, IsActive: true, CreatedAt: now.Add(-time.Minute)}
	require.NoError(t, s.Admins.Insert(ctx, first))
	assert.False(t, first.ID.IsZero())

	second := &models.Admin{Email: "b@x.com", Name: "B", Role: models.RoleAdmin, IsActive: true, CreatedAt: now}
	require.NoError(t, s.Admins.Insert(ctx, second))

	err := s.Admins.Insert(ctx, &models.Admin{Email: "a@x.com", Name: "Dup"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	n, err := s.Admins.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := s.Admins.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.Admins.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := s.Admins.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	name := "Renamed"
	login := now
	updated, err := s.Admins.Update(ctx, first.ID, repository.AdminChanges{Name: &name, LastLogin: &login})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.NotNil(t, updated.LastLogin)
	assert.WithinDuration(t, now, *updated.LastLogin, time.Millisecond)

	taken := "b@x.com"
	_, err = s.Admins.Update(ctx, first.ID, repository.AdminChanges{Email: &taken})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = s.Admins.Update(ctx, bson.NewObjectID(), repository.AdminChanges{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Admins.Delete(ctx, second.ID))
	assert.ErrorIs(t, s.Admins.Delete(ctx, second.ID), repository.ErrNotFound)
	_, err = s.Admins.FindByID(ctx, second.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testPortfolio(t *testing.T, s *repository.Store) {
	ctx := context.Background()

	p, err := s.Portfolio.GetOrCreate(ctx, newDefault)
	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	skills := len(p.About.Skills)

	again, err := s.Portfolio.GetOrCreate(ctx, newDefault)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	p.Hero.Title = "Changed"
	p.Footer.Copyright = "not persisted"
	updated, err := s.Portfolio.UpdateSection(ctx, models.SectionHero, p)
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Hero.Title)
	assert.NotEqual(t, "not persisted", updated.Footer.Copyright)

	project := models.Project{ID: bson.NewObjectID(), Title: "Site", Description: "A site", Technologies: []string{"Go"}}
	updated, err = s.Portfolio.PushItem(ctx, models.CollectionProjects, project)
	require.NoError(t, err)
	require.Len(t, updated.Projects.Items, 1)

	project.Featured = true
	updated, err = s.Portfolio.SetItem(ctx, models.CollectionProjects, project.ID, project)
	require.NoError(t, err)
	assert.True(t, updated.Projects.Items[0].Featured)

	_, err = s.Portfolio.SetItem(ctx, models.CollectionProjects, bson.NewObjectID(), project)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	updated, err = s.Portfolio.PullItem(ctx, models.CollectionSkills, p.About.Skills[0].ID)
	require.NoError(t, err)
	assert.Len(t, updated.About.Skills, skills-1)

	_, err = s.Portfolio.PullItem(ctx, models.CollectionSkills, p.About.Skills[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	replacement := newDefault()
	replacement.Hero.Title = "Replaced"
	replaced, err := s.Portfolio.Replace(ctx, &replacement)
	require.NoError(t, err)
	assert.Equal(t, p.ID, replaced.ID)
	assert.Equal(t, "Replaced", replaced.Hero.Title)
	assert.Empty(t, replaced.Projects.Items)
}

func testPortfolioCreatedOnce(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	ids := make([]bson.ObjectID, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Portfolio.GetOrCreate(ctx, newDefault)
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

func testMessages(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	var ids []bson.ObjectID
	for i, status := range []models.MessageStatus{
		models.MessageStatusUnread, models.MessageStatusUnread, models.MessageStatusRead,
	} {
		msg := &models.ContactMessage{
			Name:      fmt.Sprintf("Sender %d", i),
			Email:     "s@example.com",
			Message:   "Hello",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.Messages.Insert(ctx, msg))
		ids = append(ids, msg.ID)
	}

	all, total, err := s.Messages.List(ctx, repository.MessageFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)

	unread := models.MessageStatusUnread
	page, total, err := s.Messages.List(ctx, repository.MessageFilter{Status: &unread, Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, total, err = s.Messages.List(ctx, repository.MessageFilter{Skip: -5, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, ids[2], page[0].ID)

	msg, err := s.Messages.SetStatus(ctx, ids[0], models.MessageStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusReplied, msg.Status)

	stats, err := s.Messages.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStats{Total: 3, Unread: 1, Read: 1, Replied: 1}, stats)

	n, err := s.Messages.CountSince(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Messages.Delete(ctx, ids[1]))
	assert.ErrorIs(t, s.Messages.Delete(ctx, ids[1]), repository.ErrNotFound)
	_, err = s.Messages.FindByID(ctx, ids[1])
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Messages.ReplaceAll(ctx, []models.ContactMessage{
		{Name: "Only", Email: "o@example.com", Message: "Hi", Status: models.MessageStatusRead, CreatedAt: base},
	}))
	_, total, err = s.Messages.List(ctx, repository.MessageFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
