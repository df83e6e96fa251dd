package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

type ContactMessage struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Message   string        `bson:"message" json:"message"`
	Status    MessageStatus `bson:"status" json:"status"`
	IPAddress string        `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string        `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// MessageStats summarises the inbox for the dashboard.
type MessageStats struct {
	Total   int64 `json:"total"`
	Unread  int64 `json:"unread"`
	Read    int64 `json:"read"`
	Replied int64 `json:"replied"`
}

func (s *MessageStats) Add(status MessageStatus, n int64) {
	switch status {
	case MessageStatusUnread:
		s.Unread += n
	case MessageStatusRead:
		s.Read += n
	case MessageStatusReplied:
		s.Replied += n
	}
	s.Total += n
}
