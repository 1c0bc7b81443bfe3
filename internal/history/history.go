// Package history tracks per-user typing history and speed samples.
package history

const (
	// DefaultMaxWords bounds the per-user word history.
	DefaultMaxWords = 100
	// DefaultMaxSpeeds bounds the per-user speed sample window.
	DefaultMaxSpeeds = 10
)

type userHistory struct {
	words      []string
	speeds     []float64
	lastActive uint64
}

// Store keeps bounded histories for all known users. It carries no locking
// of its own; callers serialize access.
type Store struct {
	maxWords  int
	maxSpeeds int
	maxUsers  int
	users     map[string]*userHistory
	clock     uint64
}

// New returns a store with the given bounds. Non-positive word or speed
// bounds fall back to the defaults. maxUsers 0 disables user eviction.
func New(maxWords, maxSpeeds, maxUsers int) *Store {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if maxSpeeds <= 0 {
		maxSpeeds = DefaultMaxSpeeds
	}
	if maxUsers < 0 {
		maxUsers = 0
	}
	return &Store{
		maxWords:  maxWords,
		maxSpeeds: maxSpeeds,
		maxUsers:  maxUsers,
		users:     make(map[string]*userHistory),
	}
}

// Append adds words to the user's history, keeping only the most recent
// maxWords entries. An empty slice is a no-op and does not create the user.
func (s *Store) Append(userID string, words []string) {
	if len(words) == 0 {
		return
	}
	u := s.user(userID)
	u.words = append(u.words, words...)
	if excess := len(u.words) - s.maxWords; excess > 0 {
		copy(u.words, u.words[excess:])
		u.words = u.words[:s.maxWords]
	}
}

// RecordSpeed appends a typing speed sample, keeping only the most recent
// maxSpeeds entries. Non-positive samples carry no information and are
// ignored without creating the user.
func (s *Store) RecordSpeed(userID string, charsPerSec float64) {
	if charsPerSec <= 0 {
		return
	}
	u := s.user(userID)
	u.speeds = append(u.speeds, charsPerSec)
	if excess := len(u.speeds) - s.maxSpeeds; excess > 0 {
		copy(u.speeds, u.speeds[excess:])
		u.speeds = u.speeds[:s.maxSpeeds]
	}
}

// Snapshot returns a copy of the user's current word history, oldest first.
// Unknown users yield an empty result; reads never create state.
func (s *Store) Snapshot(userID string) []string {
	u, ok := s.users[userID]
	if !ok || len(u.words) == 0 {
		return nil
	}
	out := make([]string, len(u.words))
	copy(out, u.words)
	return out
}

// AverageSpeed returns the mean of the stored speed samples, 0 if none.
func (s *Store) AverageSpeed(userID string) float64 {
	u, ok := s.users[userID]
	if !ok || len(u.speeds) == 0 {
		return 0
	}
	var sum float64
	for _, v := range u.speeds {
		sum += v
	}
	return sum / float64(len(u.speeds))
}

// Users returns the number of users with tracked state.
func (s *Store) Users() int {
	return len(s.users)
}

// user returns the state for userID, creating it on first use. Creation
// evicts the least-recently-active user when the user bound is reached.
func (s *Store) user(userID string) *userHistory {
	u, ok := s.users[userID]
	if !ok {
		if s.maxUsers > 0 && len(s.users) >= s.maxUsers {
			s.evictIdlest()
		}
		u = &userHistory{}
		s.users[userID] = u
	}
	s.clock++
	u.lastActive = s.clock
	return u
}

func (s *Store) evictIdlest() {
	var (
		victim string
		oldest uint64
		found  bool
	)
	for id, u := range s.users {
		if !found || u.lastActive < oldest {
			victim = id
			oldest = u.lastActive
			found = true
		}
	}
	if found {
		delete(s.users, victim)
	}
}
