package services

import (
	"context"

	"github.com/princinho/portfoliobackend/models"
)

const (
	dashboardRecentMessages = 5
	dashboardActivityDays   = 7
)

// Dashboard keeps the key names existing admin front-ends read.
type Dashboard struct {
	ContactStats   models.MessageStats     `json:"contactStats"`
	RecentContacts []models.ContactMessage `json:"recentContacts"`
	Portfolio      models.PortfolioSummary `json:"portfolio"`
	// RecentActivity counts messages received in the last seven days.
	RecentActivity int64 `json:"recentActivity"`
}

// BuildDashboard aggregates the inbox and portfolio for the admin home page.
func BuildDashboard(ctx context.Context, content *Content, inbox *Inbox) (*Dashboard, error) {
	stats, err := inbox.Stats(ctx, dashboardActivityDays)
	if err != nil {
		return nil, err
	}
	recent, err := inbox.Recent(ctx, dashboardRecentMessages)
	if err != nil {
		return nil, err
	}
	p, err := content.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		ContactStats:   stats.MessageStats,
		RecentContacts: recent,
		Portfolio:      p.Summary(),
		RecentActivity: stats.Recent,
	}, nil
}
