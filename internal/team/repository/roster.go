// Package repository owns the in-memory team roster. The roster is split
// into one partition per role; a member lives in exactly one partition.
package repository

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"roofing_crm_backend/internal/team/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrNotFound      = errors.New("team member not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrInvalidRole   = errors.New("invalid role")
)

// SaveParams describes a create (ID == 0) or an edit.
// An empty PasswordHash on edit keeps the stored hash.
type SaveParams struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Role         domain.Role
}

// Roster is the process-lifetime team store.
type Roster struct {
	mu         sync.RWMutex
	partitions map[domain.Role][]domain.Member
	collator   *collate.Collator
}

// NewRoster partitions members by role and sorts each partition by first name.
// Members with an unknown role are dropped.
func NewRoster(members []domain.Member) *Roster {
	r := &Roster{
		partitions: make(map[domain.Role][]domain.Member, len(domain.Roles)),
		collator:   collate.New(language.English, collate.IgnoreCase),
	}
	for _, m := range members {
		if !m.Role.Valid() {
			continue
		}
		r.partitions[m.Role] = append(r.partitions[m.Role], m)
	}
	for _, role := range domain.Roles {
		r.sortPartition(role)
	}
	return r
}

// Save creates or edits a member. Edits remove the member from whichever
// partition currently holds it before inserting into the target partition,
// keep the prior stats and keep the prior password hash when none is given.
// New members get the next free id and zeroed stats.
func (r *Roster) Save(p SaveParams) (domain.Member, error) {
	if !p.Role.Valid() {
		return domain.Member{}, ErrInvalidRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.findByUsernameLocked(p.Username); ok && owner.ID != p.ID {
		return domain.Member{}, ErrUsernameTaken
	}

	member := domain.Member{
		User: domain.User{
			ID:           p.ID,
			Username:     p.Username,
			PasswordHash: p.PasswordHash,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Avatar:       domain.Avatar(p.FirstName, p.LastName),
			Role:         p.Role,
			Email:        p.Email,
			Phone:        p.Phone,
		},
	}

	if p.ID == 0 {
		member.ID = r.nextIDLocked()
	} else {
		existing, ok := r.removeLocked(p.ID)
		if !ok {
			return domain.Member{}, ErrNotFound
		}
		member.Stats = existing.Stats
		if member.PasswordHash == "" {
			member.PasswordHash = existing.PasswordHash
		}
	}

	r.partitions[p.Role] = append(r.partitions[p.Role], member)
	r.sortPartition(p.Role)
	return member, nil
}

// Delete removes id from the given partition only.
func (r *Roster) Delete(id int64, role domain.Role) (domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.partitions[role]
	idx := slices.IndexFunc(members, func(m domain.Member) bool { return m.ID == id })
	if idx < 0 {
		return domain.Member{}, ErrNotFound
	}
	removed := members[idx]
	r.partitions[role] = slices.Delete(slices.Clone(members), idx, idx+1)
	return removed, nil
}

// AddStats applies delta to the member whose full name is fullName.
// Unknown names are ignored; they are dangling assignees.
func (r *Roster) AddStats(fullName string, delta domain.Stats) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range domain.Roles {
		members := r.partitions[role]
		for i := range members {
			if members[i].FullName() == fullName {
				members[i].Stats = members[i].Stats.Add(delta)
				return true
			}
		}
	}
	return false
}

// Partition returns a copy of one role's members in display order.
func (r *Roster) Partition(role domain.Role) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.partitions[role])
}

// Partitions returns a copy of every partition.
func (r *Roster) Partitions() map[domain.Role][]domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.Role][]domain.Member, len(domain.Roles))
	for _, role := range domain.Roles {
		out[role] = slices.Clone(r.partitions[role])
	}
	return out
}

// All returns every member: sales, then dealers, then admin.
func (r *Roster) All() []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Member
	for _, role := range domain.Roles {
		out = append(out, r.partitions[role]...)
	}
	return out
}

// FindByID searches every partition.
func (r *Roster) FindByID(id int64) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range domain.Roles {
		for _, m := range r.partitions[role] {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return domain.Member{}, ErrNotFound
}

// FindInPartition looks id up within a single partition.
func (r *Roster) FindInPartition(id int64, role domain.Role) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.partitions[role] {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Member{}, ErrNotFound
}

// FindByFullName resolves a lead assignee string to its member.
func (r *Roster) FindByFullName(fullName string) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range domain.Roles {
		for _, m := range r.partitions[role] {
			if m.FullName() == fullName {
				return m, nil
			}
		}
	}
	return domain.Member{}, ErrNotFound
}

// FindByUsername matches case-insensitively.
func (r *Roster) FindByUsername(username string) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.findByUsernameLocked(username); ok {
		return m, nil
	}
	return domain.Member{}, ErrNotFound
}

func (r *Roster) findByUsernameLocked(username string) (domain.Member, bool) {
	for _, role := range domain.Roles {
		for _, m := range r.partitions[role] {
			if strings.EqualFold(m.Username, username) {
				return m, true
			}
		}
	}
	return domain.Member{}, false
}

func (r *Roster) removeLocked(id int64) (domain.Member, bool) {
	var (
		found   domain.Member
		removed bool
	)
	for _, role := range domain.Roles {
		kept := r.partitions[role][:0:0]
		for _, m := range r.partitions[role] {
			if m.ID == id {
				found = m
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		r.partitions[role] = kept
	}
	return found, removed
}

func (r *Roster) nextIDLocked() int64 {
	var maxID int64
	for _, role := range domain.Roles {
		for _, m := range r.partitions[role] {
			maxID = max(maxID, m.ID)
		}
	}
	return maxID + 1
}

func (r *Roster) sortPartition(role domain.Role) {
	slices.SortStableFunc(r.partitions[role], func(a, b domain.Member) int {
		return r.collator.CompareString(a.FirstName, b.FirstName)
	})
}
