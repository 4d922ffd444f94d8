package messaging

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Record is one dispatched message. The log is append-only; records are
// never mutated or removed (Reset aside).
type Record struct {
	ID       string            `json:"id"`
	Channel  string            `json:"channel"`
	To       string            `json:"to"`
	Subject  string            `json:"subject,omitempty"`
	Template string            `json:"template,omitempty"`
	Vars     map[string]string `json:"vars,omitempty"`
}

// Service accepts messages for delivery and logs them instead of sending.
// A Twilio/SendGrid integration would slot in behind Send; the demo only
// needs the record and the log line.
type Service struct {
	mu   sync.Mutex
	sent []Record
}

func NewService() *Service {
	return &Service{}
}

// Send mints an identifier, appends the record to the log and emits a log
// line carrying the full record. The message is accepted, never delivered.
func (s *Service) Send(channel, to, subject, template string, vars map[string]string) Record {
	rec := Record{
		ID:       uuid.NewString()[:8],
		Channel:  channel,
		To:       to,
		Subject:  subject,
		Template: template,
		Vars:     vars,
	}

	s.mu.Lock()
	s.sent = append(s.sent, rec)
	s.mu.Unlock()

	log.Printf("[MESSAGE] id=%s channel=%s to=%s subject=%q template=%q vars=%v",
		rec.ID, rec.Channel, rec.To, rec.Subject, rec.Template, rec.Vars)

	return rec
}

// Recent returns the newest n records, oldest first. n outside (0, len]
// returns the whole log.
func (s *Service) Recent(n int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.sent) {
		n = len(s.sent)
	}
	out := make([]Record, n)
	copy(out, s.sent[len(s.sent)-n:])
	return out
}

// Reset clears the log. Used by the demo reseed endpoint.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
