// Package repository persists administrators, the portfolio document and contact
// messages. Each concern has a MongoDB implementation and an in-memory one used
// for local development and tests.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// AdminChanges is a partial update of an administrator record.
type AdminChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *models.Role
	IsActive     *bool
	LastLogin    *time.Time
}

func (c AdminChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil &&
		c.Role == nil && c.IsActive == nil && c.LastLogin == nil
}

type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	// List returns every administrator, newest first.
	List(ctx context.Context) ([]models.Admin, error)
	Update(ctx context.Context, id bson.ObjectID, changes AdminChanges) (*models.Admin, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// PortfolioRepository holds at most one portfolio document.
type PortfolioRepository interface {
	// GetOrCreate returns the portfolio, inserting newDefault() atomically when
	// none exists. Concurrent callers observe the same document.
	GetOrCreate(ctx context.Context, newDefault func() models.Portfolio) (*models.Portfolio, error)
	// Replace overwrites every section, creating the document if needed.
	Replace(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error)
	// UpdateSection persists one section of p.
	UpdateSection(ctx context.Context, section models.Section, p *models.Portfolio) (*models.Portfolio, error)
	PushItem(ctx context.Context, coll models.Collection, item any) (*models.Portfolio, error)
	SetItem(ctx context.Context, coll models.Collection, id bson.ObjectID, item any) (*models.Portfolio, error)
	PullItem(ctx context.Context, coll models.Collection, id bson.ObjectID) (*models.Portfolio, error)
}

type MessageFilter struct {
	Status *models.MessageStatus
	Skip   int64
	Limit  int64 // zero means no limit
}

type MessageRepository interface {
	Insert(ctx context.Context, msg *models.ContactMessage) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.ContactMessage, error)
	// List returns matching messages newest first and the total match count.
	List(ctx context.Context, filter MessageFilter) ([]models.ContactMessage, int64, error)
	SetStatus(ctx context.Context, id bson.ObjectID, status models.MessageStatus) (*models.ContactMessage, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	CountByStatus(ctx context.Context) (models.MessageStats, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	// ReplaceAll drops every message and inserts msgs.
	ReplaceAll(ctx context.Context, msgs []models.ContactMessage) error
}

// Store bundles the repositories the services depend on.
type Store struct {
	Admins    AdminRepository
	Portfolio PortfolioRepository
	Messages  MessageRepository
}
