// Package ports declares what the leads context needs from other bounded
// contexts and from infrastructure. Implementations are adapters wired in
// the composition root.
package ports

import (
	"context"

	teamdomain "roofing_crm_backend/internal/team/domain"
)

// TeamRoster resolves dealers, salespeople and team counters.
type TeamRoster interface {
	FindInPartition(id int64, role teamdomain.Role) (teamdomain.Member, error)
	All() []teamdomain.Member
	Partitions() map[teamdomain.Role][]teamdomain.Member
}

// PhotoStore keeps job photos. Save receives a data URL and returns the
// reference stored on the lead; URL turns a reference back into something a
// browser can display.
type PhotoStore interface {
	Save(ctx context.Context, leadID int64, dataURL string) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ctx context.Context, ref string) (string, error)
}
