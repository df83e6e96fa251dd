package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NewMemoryStore returns a Store kept in process memory.
func NewMemoryStore() *Store {
	return &Store{
		Admins:    &memoryAdmins{byID: map[bson.ObjectID]models.Admin{}},
		Portfolio: &memoryPortfolio{},
		Messages:  &memoryMessages{byID: map[bson.ObjectID]models.ContactMessage{}},
	}
}

type memoryAdmins struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]models.Admin
}

func (m *memoryAdmins) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.byID)), nil
}

func (m *memoryAdmins) emailTaken(email string, except bson.ObjectID) bool {
	for id, a := range m.byID {
		if id != except && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (m *memoryAdmins) Insert(ctx context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = bson.NewObjectID()
	}
	if m.emailTaken(admin.Email, bson.NilObjectID) {
		return fmt.Errorf("insert admin %s: %w", admin.Email, ErrDuplicate)
	}
	m.byID[admin.ID] = *admin
	return nil
}

func (m *memoryAdmins) FindByID(ctx context.Context, id bson.ObjectID) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *memoryAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.byID {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryAdmins) List(ctx context.Context) ([]models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Admin, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryAdmins) Update(ctx context.Context, id bson.ObjectID, c AdminChanges) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Email != nil && m.emailTaken(*c.Email, id) {
		return nil, fmt.Errorf("update admin %s: %w", id.Hex(), ErrDuplicate)
	}
	if c.Name != nil {
		a.Name = *c.Name
	}
	if c.Email != nil {
		a.Email = *c.Email
	}
	if c.PasswordHash != nil {
		a.PasswordHash = *c.PasswordHash
	}
	if c.Role != nil {
		a.Role = *c.Role
	}
	if c.IsActive != nil {
		a.IsActive = *c.IsActive
	}
	if c.LastLogin != nil {
		t := *c.LastLogin
		a.LastLogin = &t
	}
	a.UpdatedAt = time.Now().UTC()
	m.byID[id] = a
	return &a, nil
}

func (m *memoryAdmins) Delete(ctx context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memoryPortfolio struct {
	mu  sync.Mutex
	doc *models.Portfolio
}

func (m *memoryPortfolio) GetOrCreate(ctx context.Context, newDefault func() models.Portfolio) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		p := newDefault()
		p.ID = bson.NewObjectID()
		p.Key = models.PortfolioKey
		m.doc = &p
	}
	return m.doc.Clone(), nil
}

func (m *memoryPortfolio) Replace(ctx context.Context, p *models.Portfolio) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := p.Clone()
	next.Key = models.PortfolioKey
	now := time.Now().UTC()
	if m.doc != nil {
		next.ID = m.doc.ID
		next.CreatedAt = m.doc.CreatedAt
	} else {
		next.ID = bson.NewObjectID()
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	m.doc = next
	return m.doc.Clone(), nil
}

func (m *memoryPortfolio) UpdateSection(ctx context.Context, section models.Section, p *models.Portfolio) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	m.doc.CopySection(section, p.Clone())
	m.doc.UpdatedAt = time.Now().UTC()
	return m.doc.Clone(), nil
}

func (m *memoryPortfolio) PushItem(ctx context.Context, coll models.Collection, item any) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	switch v := item.(type) {
	case models.Project:
		v.Technologies = slices.Clone(v.Technologies)
		m.doc.Projects.Items = append(m.doc.Projects.Items, v)
	case models.Skill:
		m.doc.About.Skills = append(m.doc.About.Skills, v)
	case models.ContactInfo:
		m.doc.Contact.ContactInfo = append(m.doc.Contact.ContactInfo, v)
	default:
		return nil, fmt.Errorf("push %s: unsupported item %T", coll, item)
	}
	m.doc.UpdatedAt = time.Now().UTC()
	return m.doc.Clone(), nil
}

func (m *memoryPortfolio) SetItem(ctx context.Context, coll models.Collection, id bson.ObjectID, item any) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	found := false
	switch v := item.(type) {
	case models.Project:
		found = replaceByID(m.doc.Projects.Items, id, v, func(p models.Project) bson.ObjectID { return p.ID })
	case models.Skill:
		found = replaceByID(m.doc.About.Skills, id, v, func(s models.Skill) bson.ObjectID { return s.ID })
	case models.ContactInfo:
		found = replaceByID(m.doc.Contact.ContactInfo, id, v, func(c models.ContactInfo) bson.ObjectID { return c.ID })
	default:
		return nil, fmt.Errorf("set %s: unsupported item %T", coll, item)
	}
	if !found {
		return nil, ErrNotFound
	}
	m.doc.UpdatedAt = time.Now().UTC()
	return m.doc.Clone(), nil
}

func (m *memoryPortfolio) PullItem(ctx context.Context, coll models.Collection, id bson.ObjectID) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	var before, after int
	switch coll {
	case models.CollectionProjects:
		before = len(m.doc.Projects.Items)
		m.doc.Projects.Items = slices.DeleteFunc(m.doc.Projects.Items, func(p models.Project) bool { return p.ID == id })
		after = len(m.doc.Projects.Items)
	case models.CollectionSkills:
		before = len(m.doc.About.Skills)
		m.doc.About.Skills = slices.DeleteFunc(m.doc.About.Skills, func(s models.Skill) bool { return s.ID == id })
		after = len(m.doc.About.Skills)
	case models.CollectionContactInfo:
		before = len(m.doc.Contact.ContactInfo)
		m.doc.Contact.ContactInfo = slices.DeleteFunc(m.doc.Contact.ContactInfo, func(c models.ContactInfo) bool { return c.ID == id })
		after = len(m.doc.Contact.ContactInfo)
	default:
		return nil, fmt.Errorf("pull: unknown collection %q", coll)
	}
	if before == after {
		return nil, ErrNotFound
	}
	m.doc.UpdatedAt = time.Now().UTC()
	return m.doc.Clone(), nil
}

func replaceByID[T any](items []T, id bson.ObjectID, v T, idOf func(T) bson.ObjectID) bool {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return true
		}
	}
	return false
}

type memoryMessages struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]models.ContactMessage
}

func (m *memoryMessages) Insert(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	m.byID[msg.ID] = *msg
	return nil
}

func (m *memoryMessages) FindByID(ctx context.Context, id bson.ObjectID) (*models.ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &msg, nil
}

func (m *memoryMessages) List(ctx context.Context, f MessageFilter) ([]models.ContactMessage, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]models.ContactMessage, 0, len(m.byID))
	for _, msg := range m.byID {
		if f.Status != nil && msg.Status != *f.Status {
			continue
		}
		all = append(all, msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Skip >= total {
		return []models.ContactMessage{}, total, nil
	}
	all = all[f.Skip:]
	if f.Limit > 0 && int64(len(all)) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (m *memoryMessages) SetStatus(ctx context.Context, id bson.ObjectID, status models.MessageStatus) (*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	msg.Status = status
	msg.UpdatedAt = time.Now().UTC()
	m.byID[id] = msg
	return &msg, nil
}

func (m *memoryMessages) Delete(ctx context.Context, id bson.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryMessages) CountByStatus(ctx context.Context) (models.MessageStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stats models.MessageStats
	for _, msg := range m.byID {
		stats.Add(msg.Status, 1)
	}
	return stats, nil
}

func (m *memoryMessages) CountSince(ctx context.Context, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, msg := range m.byID {
		if !msg.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memoryMessages) ReplaceAll(ctx context.Context, msgs []models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[bson.ObjectID]models.ContactMessage, len(msgs))
	for _, msg := range msgs {
		if msg.ID.IsZero() {
			msg.ID = bson.NewObjectID()
		}
		m.byID[msg.ID] = msg
	}
	return nil
}
