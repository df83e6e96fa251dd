package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/princinho/portfoliobackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	credentials *Credentials
	content     *Content
	inbox       *Inbox
	transfer    *Transfer
}

func newTestServices() testServices {
	store := repository.NewMemoryStore()
	s := testServices{
		credentials: NewCredentials(store.Admins),
		content:     NewContent(store.Portfolio),
		inbox:       NewInbox(store.Messages, &recordingMailer{}, "", discardLogger()),
	}
	s.transfer = NewTransfer(s.content, s.inbox, s.credentials)
	return s
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()

	for i := 0; i < 7; i++ {
		_, err := s.inbox.Submit(ctx, validSubmission())
		require.NoError(t, err)
	}
	_, err := s.content.AddProject(ctx, ProjectInput{Title: "Site", Description: "A site"})
	require.NoError(t, err)

	d, err := BuildDashboard(ctx, s.content, s.inbox)
	require.NoError(t, err)
	assert.EqualValues(t, 7, d.ContactStats.Total)
	assert.EqualValues(t, 7, d.ContactStats.Unread)
	assert.Len(t, d.RecentContacts, 5)
	assert.Equal(t, 1, d.Portfolio.ProjectsCount)
	assert.Equal(t, 4, d.Portfolio.SkillsCount)
	assert.EqualValues(t, 7, d.RecentActivity)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestServices()

	_, err := src.content.AddProject(ctx, ProjectInput{Title: "Site", Description: "A site"})
	require.NoError(t, err)
	_, err = src.inbox.Submit(ctx, validSubmission())
	require.NoError(t, err)

	snap, err := src.transfer.Export(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	dst := newTestServices()
	require.NoError(t, dst.transfer.Import(ctx, &decoded))

	p, err := dst.content.Get(ctx)
	require.NoError(t, err)
	require.Len(t, p.Projects.Items, 1)
	assert.Equal(t, "Site", p.Projects.Items[0].Title)

	msgs, err := dst.inbox.All(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MessageStatusUnread, msgs[0].Status)
}

func TestImportRejectsEmptySnapshot(t *testing.T) {
	err := newTestServices().transfer.Import(context.Background(), &Snapshot{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBackupWritesToStore(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()
	_, err := s.credentials.BootstrapDefault(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	store, err := utils.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	obj, err := s.transfer.Backup(ctx, store)
	require.NoError(t, err)
	assert.Contains(t, obj.Name, utils.BackupPrefix)
	assert.Empty(t, obj.URL)

	listed, err := store.List(ctx, utils.BackupPrefix)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, obj.Size, listed[0].Size)
}
