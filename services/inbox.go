package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/princinho/portfoliobackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MaxSenderNameLength = 50
	MaxMessageLength    = 1000

	DefaultPageSize = 10
	MaxPageSize     = 100

	notifyTimeout = 10 * time.Second
)

// Inbox holds contact-form submissions.
type Inbox struct {
	repo     repository.MessageRepository
	mailer   utils.Mailer
	notifyTo string
	log      *slog.Logger
	now      func() time.Time
}

// NewInbox builds an inbox. When notifyTo is empty no notification is sent.
func NewInbox(repo repository.MessageRepository, mailer utils.Mailer, notifyTo string, log *slog.Logger) *Inbox {
	if mailer == nil {
		mailer = utils.NoopMailer{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Inbox{
		repo:     repo,
		mailer:   mailer,
		notifyTo: notifyTo,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type Submission struct {
	Name      string
	Email     string
	Message   string
	IPAddress string
	UserAgent string
}

func (s *Submission) validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = NormalizeEmail(s.Email)
	s.Message = strings.TrimSpace(s.Message)

	if err := requireField("name", s.Name); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.Name) > MaxSenderNameLength {
		return invalid("name", "cannot be more than %d characters", MaxSenderNameLength)
	}
	if err := requireField("email", s.Email); err != nil {
		return err
	}
	if !validEmail(s.Email) {
		return invalid("email", "please provide a valid email")
	}
	if err := requireField("message", s.Message); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.Message) > MaxMessageLength {
		return invalid("message", "cannot be more than %d characters", MaxMessageLength)
	}
	return nil
}

// Submit stores a new message as unread and notifies the site owner.
func (in *Inbox) Submit(ctx context.Context, s Submission) (*models.ContactMessage, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	now := in.now()
	msg := &models.ContactMessage{
		ID:        bson.NewObjectID(),
		Name:      s.Name,
		Email:     s.Email,
		Message:   s.Message,
		Status:    models.MessageStatusUnread,
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := in.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	in.notify(ctx, msg)
	return msg, nil
}

// notify is best effort; a delivery failure never fails the submission.
func (in *Inbox) notify(ctx context.Context, msg *models.ContactMessage) {
	if in.notifyTo == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	subject := fmt.Sprintf("New portfolio message from %s", msg.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\nReceived: %s\n\n%s\n",
		msg.Name, msg.Email, msg.CreatedAt.Format(time.RFC1123), msg.Message)
	if err := in.mailer.Send(ctx, in.notifyTo, subject, body); err != nil {
		in.log.Warn("contact notification failed", "message_id", msg.ID.Hex(), "error", err)
	}
}

func (in *Inbox) Get(ctx context.Context, id bson.ObjectID) (*models.ContactMessage, error) {
	msg, err := in.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("message")
	}
	return msg, err
}

// ParseStatus accepts an empty string as "no filter".
func ParseStatus(raw string) (*models.MessageStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	status := models.MessageStatus(raw)
	if !status.Valid() {
		return nil, invalid("status", "must be one of unread, read, replied")
	}
	return &status, nil
}

// SetStatus overwrites the status; any value may follow any other.
func (in *Inbox) SetStatus(ctx context.Context, id bson.ObjectID, status models.MessageStatus) (*models.ContactMessage, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be one of unread, read, replied")
	}
	msg, err := in.repo.SetStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("message")
	}
	return msg, err
}

type ListQuery struct {
	Status *models.MessageStatus
	Page   int
	Limit  int
}

type Page struct {
	Messages []models.ContactMessage `json:"messages"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	Pages    int64                   `json:"pages"`
	Limit    int                     `json:"limit"`
}

func (in *Inbox) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	// (Page-1)*Limit must not overflow.
	if maxPage := math.MaxInt64 / int64(q.Limit); int64(q.Page) > maxPage {
		q.Page = int(maxPage)
	}
	msgs, total, err := in.repo.List(ctx, repository.MessageFilter{
		Status: q.Status,
		Skip:   (int64(q.Page) - 1) * int64(q.Limit),
		Limit:  int64(q.Limit),
	})
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	pages := (total + int64(q.Limit) - 1) / int64(q.Limit)
	return &Page{Messages: msgs, Total: total, Page: q.Page, Pages: pages, Limit: q.Limit}, nil
}

// All returns every message, newest first.
func (in *Inbox) All(ctx context.Context) ([]models.ContactMessage, error) {
	msgs, _, err := in.repo.List(ctx, repository.MessageFilter{})
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return msgs, nil
}

// Recent returns the n newest messages.
func (in *Inbox) Recent(ctx context.Context, n int) ([]models.ContactMessage, error) {
	msgs, _, err := in.repo.List(ctx, repository.MessageFilter{Limit: int64(n)})
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return msgs, nil
}

func (in *Inbox) Delete(ctx context.Context, id bson.ObjectID) error {
	err := in.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("message")
	}
	return err
}

type InboxStats struct {
	models.MessageStats
	RecentDays int   `json:"recentDays"`
	Recent     int64 `json:"recent"`
}

// Stats counts messages by status and those received in the last days days.
func (in *Inbox) Stats(ctx context.Context, days int) (*InboxStats, error) {
	byStatus, err := in.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	since := in.now().AddDate(0, 0, -days)
	recent, err := in.repo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &InboxStats{MessageStats: byStatus, RecentDays: days, Recent: recent}, nil
}

// ReplaceAll swaps the whole inbox for msgs, used when importing a snapshot.
func (in *Inbox) ReplaceAll(ctx context.Context, msgs []models.ContactMessage) error {
	now := in.now()
	for i := range msgs {
		if msgs[i].ID.IsZero() {
			msgs[i].ID = bson.NewObjectID()
		}
		if !msgs[i].Status.Valid() {
			msgs[i].Status = models.MessageStatusUnread
		}
		if msgs[i].CreatedAt.IsZero() {
			msgs[i].CreatedAt = now
		}
		if msgs[i].UpdatedAt.IsZero() {
			msgs[i].UpdatedAt = msgs[i].CreatedAt
		}
	}
	return in.repo.ReplaceAll(ctx, msgs)
}
