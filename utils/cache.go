package utils

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ProgressStore is the durable side of the user progression cache.
// The Postgres implementation lives in database.go; tests use a fake.
type ProgressStore interface {
	UserSkills(ctx context.Context, userID int64) ([]*Skill, error)
	// UserPp returns (nil, nil) when the user has no pp row yet.
	UserPp(ctx context.Context, userID int64) (*Pp, error)
	AddSkillExperience(ctx context.Context, userID int64, name string, delta int64) error
	UpsertPp(ctx context.Context, pp *Pp) error
}

// Skill is a named skill with accumulated experience. The pending counter
// tracks experience gained since the last successful flush; only that delta
// is written to the store.
type Skill struct {
	Name       string
	Experience int64

	pending int64
}

// Level derives the skill level from its total experience
func (s *Skill) Level() int {
	return SkillLevel(s.Experience)
}

// Pp is a user's growth attribute
type Pp struct {
	UserID     int64
	Name       string
	Size       int64
	Multiplier float64
}

// NewPp creates a default pp for a user that has no stored row yet
func NewPp(userID int64) *Pp {
	return &Pp{
		UserID:     userID,
		Name:       DefaultPpName,
		Size:       0,
		Multiplier: DefaultMultiplier,
	}
}

// CachedUser is the in-memory progression state for one user. All mutations
// happen here; the store only sees them on the next flush tick.
type CachedUser struct {
	UserID int64
	Skills []*Skill
	Pp     *Pp

	mu        sync.Mutex
	ppDirty   bool
	lastTouch time.Time
}

// GetSkill returns the named skill, creating a zero-experience entry if the
// user has never trained it
func (cu *CachedUser) GetSkill(name string) *Skill {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.lastTouch = time.Now()

	for _, skill := range cu.Skills {
		if skill.Name == name {
			return skill
		}
	}
	skill := &Skill{Name: name}
	cu.Skills = append(cu.Skills, skill)
	return skill
}

// AddExperience adds experience to the named skill and returns the new total
func (cu *CachedUser) AddExperience(name string, amount int64) int64 {
	skill := cu.GetSkill(name)

	cu.mu.Lock()
	defer cu.mu.Unlock()
	skill.Experience += amount
	skill.pending += amount
	return skill.Experience
}

// GrowPp changes the pp size by delta (negative for gambling losses) and
// returns the new size
func (cu *CachedUser) GrowPp(delta int64) int64 {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.lastTouch = time.Now()
	cu.Pp.Size += delta
	cu.ppDirty = true
	return cu.Pp.Size
}

// RenamePp sets the pp display name
func (cu *CachedUser) RenamePp(name string) {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.lastTouch = time.Now()
	cu.Pp.Name = name
	cu.ppDirty = true
}

// AddMultiplier raises the pp multiplier
func (cu *CachedUser) AddMultiplier(amount float64) {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.lastTouch = time.Now()
	cu.Pp.Multiplier += amount
	cu.ppDirty = true
}

// UserCache stages per-user progression mutations in memory and writes them
// back to the store on a fixed interval. It is constructed at startup and
// injected into the command handlers; there is no ambient global.
type UserCache struct {
	store   ProgressStore
	idleTTL time.Duration

	mu    sync.RWMutex
	users map[int64]*CachedUser
}

// NewUserCache creates a cache backed by the given store. Entries that have
// nothing left to flush and have been idle longer than idleTTL are evicted
// during the flush sweep; idleTTL <= 0 disables eviction.
func NewUserCache(store ProgressStore, idleTTL time.Duration) *UserCache {
	return &UserCache{
		store:   store,
		idleTTL: idleTTL,
		users:   make(map[int64]*CachedUser),
	}
}

// Get returns the cached entry for a user, loading skills and pp from the
// store on first access. A user with no pp row gets a default-initialized
// one; it is not persisted until the next flush.
func (uc *UserCache) Get(ctx context.Context, userID int64) (*CachedUser, error) {
	uc.mu.RLock()
	user, exists := uc.users[userID]
	uc.mu.RUnlock()
	if exists {
		user.mu.Lock()
		user.lastTouch = time.Now()
		user.mu.Unlock()
		return user, nil
	}

	skills, err := uc.store.UserSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	pp, err := uc.store.UserPp(ctx, userID)
	if err != nil {
		return nil, err
	}

	user = &CachedUser{
		UserID:    userID,
		Skills:    skills,
		Pp:        pp,
		lastTouch: time.Now(),
	}
	if user.Pp == nil {
		user.Pp = NewPp(userID)
		// Default pp has to reach the store even if never mutated
		user.ppDirty = true
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	// Another handler may have loaded the same user while we hit the store
	if existing, ok := uc.users[userID]; ok {
		return existing, nil
	}
	uc.users[userID] = user

	log.WithField("user_id", userID).Info("Creating user cache... success")
	return user, nil
}

// Size returns the number of cached users
func (uc *UserCache) Size() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.users)
}

// Flush writes all pending mutations to the store. Skill experience is
// written as an additive delta; pp is a full overwrite. A failed write keeps
// its pending state so the same snapshot is retried on the next tick.
func (uc *UserCache) Flush(ctx context.Context) {
	uc.mu.RLock()
	users := make([]*CachedUser, 0, len(uc.users))
	for _, user := range uc.users {
		users = append(users, user)
	}
	uc.mu.RUnlock()

	for _, user := range users {
		uc.flushUser(ctx, user)
	}

	if uc.idleTTL > 0 {
		uc.evictIdle()
	}
}

func (uc *UserCache) flushUser(ctx context.Context, user *CachedUser) {
	// Snapshot under the lock, write outside it
	user.mu.Lock()
	type skillDelta struct {
		skill *Skill
		delta int64
	}
	deltas := make([]skillDelta, 0, len(user.Skills))
	for _, skill := range user.Skills {
		if skill.pending != 0 {
			deltas = append(deltas, skillDelta{skill, skill.pending})
		}
	}
	var ppSnapshot *Pp
	if user.ppDirty {
		copied := *user.Pp
		ppSnapshot = &copied
	}
	user.mu.Unlock()

	for _, sd := range deltas {
		if err := uc.store.AddSkillExperience(ctx, user.UserID, sd.skill.Name, sd.delta); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": user.UserID,
				"skill":   sd.skill.Name,
			}).Error("Failed to flush skill experience, will retry next tick")
			continue
		}
		user.mu.Lock()
		// Subtract what was written; gains made during the write survive
		sd.skill.pending -= sd.delta
		user.mu.Unlock()
	}

	if ppSnapshot != nil {
		if err := uc.store.UpsertPp(ctx, ppSnapshot); err != nil {
			log.WithError(err).WithField("user_id", user.UserID).
				Error("Failed to flush pp, will retry next tick")
			return
		}
		user.mu.Lock()
		// Only clear if nothing changed since the snapshot was taken
		if *user.Pp == *ppSnapshot {
			user.ppDirty = false
		}
		user.mu.Unlock()
	}
}

// evictIdle drops fully-flushed entries that have not been touched for the
// idle TTL. Entries with unflushed state are never evicted.
func (uc *UserCache) evictIdle() {
	cutoff := time.Now().Add(-uc.idleTTL)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	evicted := 0
	for userID, user := range uc.users {
		user.mu.Lock()
		idle := user.lastTouch.Before(cutoff) && !user.ppDirty
		for _, skill := range user.Skills {
			if skill.pending != 0 {
				idle = false
				break
			}
		}
		user.mu.Unlock()

		if idle {
			delete(uc.users, userID)
			evicted++
		}
	}
	if evicted > 0 {
		log.WithField("evicted", evicted).Info("Evicted idle cache entries")
	}
}
