package scheduler

import "sync"

// State tracks the per-day posting counters. It is owned by the scheduler
// and passed by reference into the posting cycle, keeping single-writer
// semantics explicit instead of hiding them in package globals.
type State struct {
	mu            sync.Mutex
	maxDailyPosts int
	dailyCount    int
	postedToday   map[string]struct{}
}

// NewState creates a daily posting state with the given cap.
func NewState(maxDailyPosts int) *State {
	return &State{
		maxDailyPosts: maxDailyPosts,
		postedToday:   make(map[string]struct{}),
	}
}

// CanPost reports whether the daily cap still allows another post.
func (s *State) CanPost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyCount < s.maxDailyPosts
}

// Increment records one post against the daily cap.
func (s *State) Increment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyCount++
}

// DailyCount returns the number of posts recorded today.
func (s *State) DailyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyCount
}

// Add marks content as posted today.
func (s *State) Add(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postedToday[content] = struct{}{}
}

// Contains reports whether identical content was already posted today.
func (s *State) Contains(content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.postedToday[content]
	return ok
}

// Reset clears the counters at the daily boundary.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyCount = 0
	s.postedToday = make(map[string]struct{})
}
