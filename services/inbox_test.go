package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestInbox(mailer *recordingMailer, notifyTo string) *Inbox {
	if mailer == nil {
		mailer = &recordingMailer{}
	}
	return NewInbox(repository.NewMemoryStore().Messages, mailer, notifyTo, discardLogger())
}

func validSubmission() Submission {
	return Submission{Name: "Ada", Email: "ada@example.com", Message: "Hello there", IPAddress: "10.0.0.1", UserAgent: "test"}
}

func TestSubmitThenSetStatus(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")

	msg, err := in.Submit(ctx, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusUnread, msg.Status)
	assert.Equal(t, "10.0.0.1", msg.IPAddress)

	_, err = in.SetStatus(ctx, msg.ID, models.MessageStatusReplied)
	require.NoError(t, err)

	page, err := in.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, models.MessageStatusReplied, page.Messages[0].Status)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")

	cases := map[string]func(*Submission){
		"missing name":  func(s *Submission) { s.Name = "" },
		"long name":     func(s *Submission) { s.Name = strings.Repeat("a", MaxSenderNameLength+1) },
		"bad email":     func(s *Submission) { s.Email = "ada@" },
		"empty message": func(s *Submission) { s.Message = "   " },
		"long message":  func(s *Submission) { s.Message = strings.Repeat("m", MaxMessageLength+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := validSubmission()
			mutate(&s)
			_, err := in.Submit(ctx, s)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	page, err := in.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestSubmitNotifies(t *testing.T) {
	mailer := &recordingMailer{}
	in := newTestInbox(mailer, "owner@example.com")

	_, err := in.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.True(t, strings.HasPrefix(mailer.sent[0], "owner@example.com|"))
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	in := newTestInbox(mailer, "owner@example.com")

	msg, err := in.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")

	msg, err := in.Submit(ctx, validSubmission())
	require.NoError(t, err)

	_, err = in.SetStatus(ctx, msg.ID, "archived")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = in.SetStatus(ctx, bson.NewObjectID(), models.MessageStatusRead)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		in.now = func() time.Time { return at }
		msg, err := in.Submit(ctx, validSubmission())
		require.NoError(t, err)
		if i%2 == 0 {
			_, err = in.SetStatus(ctx, msg.ID, models.MessageStatusRead)
			require.NoError(t, err)
		}
	}

	read := models.MessageStatusRead
	page, err := in.List(ctx, ListQuery{Status: &read})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	page, err = in.List(ctx, ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.EqualValues(t, 3, page.Pages)
	assert.Len(t, page.Messages, 2)
	assert.True(t, page.Messages[0].CreatedAt.After(page.Messages[1].CreatedAt))
}

func TestListHugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")
	_, err := in.Submit(ctx, validSubmission())
	require.NoError(t, err)

	page, err := in.List(ctx, ListQuery{Page: math.MaxInt, Limit: MaxPageSize})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Empty(t, page.Messages)
	assert.Positive(t, page.Page)
}

func TestStatsAndDelete(t *testing.T) {
	ctx := context.Background()
	in := newTestInbox(nil, "")

	old := time.Now().UTC().AddDate(0, 0, -30)
	in.now = func() time.Time { return old }
	_, err := in.Submit(ctx, validSubmission())
	require.NoError(t, err)

	in.now = func() time.Time { return time.Now().UTC() }
	recent, err := in.Submit(ctx, validSubmission())
	require.NoError(t, err)
	_, err = in.SetStatus(ctx, recent.ID, models.MessageStatusReplied)
	require.NoError(t, err)

	stats, err := in.Stats(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Unread)
	assert.EqualValues(t, 1, stats.Replied)
	assert.EqualValues(t, 1, stats.Recent)

	require.NoError(t, in.Delete(ctx, recent.ID))
	assert.ErrorIs(t, in.Delete(ctx, recent.ID), ErrNotFound)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = ParseStatus("read")
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, *s)

	_, err = ParseStatus("spam")
	assert.Error(t, err)
}
