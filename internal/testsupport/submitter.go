package testsupport

import (
	"context"
	"errors"
	"sync"
	"time"

	"tweetr/internal/services"
	"tweetr/internal/services/twitter"
)

// Submitter is a scripted twitter.Submitter. Content listed in Fail is
// rejected with a transient error, content listed in Unconfirmed gets an
// accepted-but-unreadable response, and everything else is assigned sequential
// IDs starting at NextID.
type Submitter struct {
	mu          sync.Mutex
	NextID      int64
	At          time.Time
	Fail        map[string]bool
	Unconfirmed map[string]bool
	Sent        []string
}

// NewSubmitter returns a Submitter that posts at the given instant.
func NewSubmitter(at time.Time) *Submitter {
	return &Submitter{NextID: 1000, At: at, Fail: map[string]bool{}, Unconfirmed: map[string]bool{}}
}

// Submit records the content and returns the scripted outcome.
func (s *Submitter) Submit(_ context.Context, content string, _, _ twitter.Token) (twitter.Posted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, content)
	if s.Fail[content] {
		return twitter.Posted{}, services.Wrap(services.ErrTransient, "twitter", "post tweet", "http 503: over capacity", errors.New("over capacity"))
	}
	if s.Unconfirmed[content] {
		return twitter.Posted{}, services.Wrap(services.ErrUnconfirmed, "twitter", "post tweet", `accepted but tweet id ""`, errors.New("invalid syntax"))
	}
	id := s.NextID
	s.NextID++
	return twitter.Posted{ID: id, At: s.At}, nil
}

// Calls returns how many submissions were attempted.
func (s *Submitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}
