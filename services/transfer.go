package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/utils"
)

// Snapshot is the export format: the whole portfolio plus the inbox.
type Snapshot struct {
	Portfolio  *models.Portfolio       `json:"portfolio"`
	Contacts   []models.ContactMessage `json:"contacts"`
	Admins     []models.Admin          `json:"admins,omitempty"`
	ExportedAt time.Time               `json:"exportedAt"`
}

type Transfer struct {
	content     *Content
	inbox       *Inbox
	credentials *Credentials
}

func NewTransfer(content *Content, inbox *Inbox, credentials *Credentials) *Transfer {
	return &Transfer{content: content, inbox: inbox, credentials: credentials}
}

func (t *Transfer) Export(ctx context.Context) (*Snapshot, error) {
	p, err := t.content.Get(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := t.inbox.All(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Portfolio: p, Contacts: msgs, ExportedAt: time.Now().UTC()}, nil
}

// Import overwrites the portfolio when present and replaces the inbox when
// contacts are present. Admin records are never imported.
func (t *Transfer) Import(ctx context.Context, s *Snapshot) error {
	if s == nil || (s.Portfolio == nil && s.Contacts == nil) {
		return invalid("", "nothing to import")
	}
	if s.Portfolio != nil {
		if _, err := t.content.Import(ctx, s.Portfolio); err != nil {
			return err
		}
	}
	if s.Contacts != nil {
		if err := t.inbox.ReplaceAll(ctx, s.Contacts); err != nil {
			return err
		}
	}
	return nil
}

// Backup writes an export, admins included, to the object store. The returned
// object carries no URL; backups are only reachable through the store itself.
func (t *Transfer) Backup(ctx context.Context, store utils.ObjectStore) (*utils.StoredObject, error) {
	snap, err := t.Export(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := t.credentials.List(ctx)
	if err != nil {
		return nil, err
	}
	snap.Admins = admins

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	name := utils.BackupObjectName(snap.ExportedAt)
	if _, err := store.Put(ctx, name, "application/json", bytes.NewReader(body), int64(len(body))); err != nil {
		return nil, fmt.Errorf("store backup: %w", err)
	}
	return &utils.StoredObject{Name: name, Size: int64(len(body)), Created: snap.ExportedAt}, nil
}
