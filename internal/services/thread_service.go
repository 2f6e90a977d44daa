// Package services – ThreadService
//
// This file implements the thread registry: context-scoped conversations
// (about a resource, a booking, or nothing in particular), append-only
// messages with a per-thread sequence, polling reads, inbox projections,
// and participant derivation.
//
// Messaging storage is probed once at startup. When the tables are missing
// the service is constructed disabled and every method returns
// ErrSchemaUnavailable, which handlers degrade to empty results.
//
// Authorization is not enforced here; handlers decide who may create, read,
// or reply using Participants.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxContentRunes is the message length limit used when none is set.
const DefaultMaxContentRunes = 2000

// ThreadSummary is one row of an inbox listing.
type ThreadSummary struct {
	Thread       domain.Thread   `json:"thread"`
	LastActivity *time.Time      `json:"last_activity"`
	MessageCount int64           `json:"message_count"`
	LastMessage  *domain.Message `json:"last_message,omitempty"`
}

// ThreadService coordinates thread and message persistence.
type ThreadService struct {
	DB *gorm.DB

	// Enabled is the messaging capability flag decided at startup.
	Enabled bool

	// MaxContentRunes caps message length after normalization.
	MaxContentRunes int

	// Now returns the current time; overridable in tests.
	Now func() time.Time

	locks keyedMutex
}

// NewThreadService wires a ThreadService.
func NewThreadService(db *gorm.DB, enabled bool, maxContentRunes int) *ThreadService {
	if maxContentRunes <= 0 {
		maxContentRunes = DefaultMaxContentRunes
	}
	return &ThreadService{
		DB:              db,
		Enabled:         enabled,
		MaxContentRunes: maxContentRunes,
		Now:             time.Now,
	}
}

func (s *ThreadService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// CreateThread opens a conversation. Resource and booking contexts require
// contextID to reference an existing entity of that type; general threads
// must not carry a context id.
func (s *ThreadService) CreateThread(ctx context.Context, contextType string, contextID *string, createdBy string) (*domain.Thread, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	tr := otel.Tracer("services/ThreadService")
	ctx, span := tr.Start(ctx, "CreateThread",
		trace.WithAttributes(
			attribute.String("thread.context_type", contextType),
			attribute.String("user.id", createdBy),
		),
	)
	defer span.End()

	if contextID != nil && strings.TrimSpace(*contextID) == "" {
		contextID = nil
	}
	switch contextType {
	case domain.ContextGeneral:
		if contextID != nil {
			return nil, ErrInvalidContext
		}
	case domain.ContextResource:
		if contextID == nil {
			return nil, ErrInvalidContext
		}
		if _, err := repo.GetResource(ctx, s.DB, *contextID, true); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
	case domain.ContextBooking:
		if contextID == nil {
			return nil, ErrInvalidContext
		}
		if _, err := repo.GetBooking(ctx, s.DB, *contextID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
	default:
		return nil, ErrInvalidContext
	}

	t, err := repo.CreateThread(ctx, s.DB, contextType, contextID, createdBy)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create thread: %w", err)
	}
	log.Info().Str("thread_id", t.ID).Str("context_type", contextType).Msg("thread created")
	return t, nil
}

// Get returns a thread header or ErrThreadNotFound.
func (s *ThreadService) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	t, err := repo.GetThread(ctx, s.DB, threadID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return t, nil
}

// PostMessage appends a message to threadID. Content is NFC-normalized and
// trimmed; it must be non-empty and at most MaxContentRunes long.
//
// Posts to the same thread are serialized. Each message gets the next
// sequence number and a timestamp strictly after its predecessor's, so
// polling with the last seen timestamp never skips or repeats a message.
func (s *ThreadService) PostMessage(ctx context.Context, threadID, senderID, receiverID, content string) (*domain.Message, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	tr := otel.Tracer("services/ThreadService")
	ctx, span := tr.Start(ctx, "PostMessage",
		trace.WithAttributes(
			attribute.String("thread.id", threadID),
			attribute.String("user.id", senderID),
		),
	)
	defer span.End()

	content, err := s.normalizeContent(content)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(threadID)
	defer unlock()

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetThread(ctx, tx, threadID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrThreadNotFound
			}
			return err
		}

		seq := int64(1)
		ts := normalizeInstant(s.now())
		last, err := repo.LastMessage(ctx, tx, threadID)
		switch {
		case err == nil:
			seq = last.Seq + 1
			if !ts.After(last.Timestamp) {
				ts = last.Timestamp.Add(time.Microsecond)
			}
		case !errors.Is(err, repo.ErrNotFound):
			return err
		}

		m := &domain.Message{
			ID:         uuid.NewString(),
			ThreadID:   threadID,
			Seq:        seq,
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    content,
			Timestamp:  ts,
		}
		if err := repo.CreateMessage(ctx, tx, m); err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("post message: %w", err)
	}

	messagesPosted.Inc()
	log.Debug().Str("thread_id", threadID).Int64("seq", msg.Seq).Msg("message posted")
	return msg, nil
}

// Start opens a thread and posts its first message from createdBy to
// receiverID. Content is validated before anything is written, so a rejected
// message never leaves an empty thread behind.
func (s *ThreadService) Start(ctx context.Context, contextType string, contextID *string, createdBy, receiverID, content string) (*domain.Thread, *domain.Message, error) {
	if !s.Enabled {
		return nil, nil, ErrSchemaUnavailable
	}
	if createdBy == receiverID {
		return nil, nil, ErrSelfThread
	}
	if _, err := s.normalizeContent(content); err != nil {
		return nil, nil, err
	}
	t, err := s.CreateThread(ctx, contextType, contextID, createdBy)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.PostMessage(ctx, t.ID, createdBy, receiverID, content)
	if err != nil {
		return nil, nil, err
	}
	return t, m, nil
}

// normalizeContent applies NFC, trims, and enforces the length limit.
func (s *ThreadService) normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(norm.NFC.String(content))
	if content == "" {
		return "", ErrEmptyContent
	}
	limit := s.MaxContentRunes
	if limit <= 0 {
		limit = DefaultMaxContentRunes
	}
	if utf8.RuneCountInString(content) > limit {
		return "", ErrTooLong
	}
	return content, nil
}

// Messages returns the full history of a thread in ascending order.
func (s *ThreadService) Messages(ctx context.Context, threadID string) ([]domain.Message, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	return repo.ListMessages(ctx, s.DB, threadID)
}

// MessagesSince returns the messages of a thread with a timestamp strictly
// after since, in ascending order.
func (s *ThreadService) MessagesSince(ctx context.Context, threadID string, since time.Time) ([]domain.Message, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	return repo.ListMessagesSince(ctx, s.DB, threadID, since)
}

// LastMessage returns the most recent message, or nil when the thread has
// none.
func (s *ThreadService) LastMessage(ctx context.Context, threadID string) (*domain.Message, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	m, err := repo.LastMessage(ctx, s.DB, threadID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

// ListForUser returns the threads in which userID sent or received a
// message, most recent activity first.
func (s *ThreadService) ListForUser(ctx context.Context, userID string) ([]ThreadSummary, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	threads, err := repo.ListThreadsForParticipant(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, threads)
}

// ListForAdmin returns every thread, including ones without messages, most
// recent activity first and inactive threads last.
func (s *ThreadService) ListForAdmin(ctx context.Context) ([]ThreadSummary, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}
	threads, err := repo.ListAllThreads(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, threads)
}

func (s *ThreadService) summarize(ctx context.Context, threads []domain.Thread) ([]ThreadSummary, error) {
	ids := make([]string, len(threads))
	for i := range threads {
		ids[i] = threads[i].ID
	}
	activity, err := repo.LoadThreadActivity(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ThreadSummary, len(threads))
	for i, t := range threads {
		out[i] = ThreadSummary{Thread: t}
		if a, ok := activity[t.ID]; ok {
			out[i].MessageCount = a.MessageCount
			if a.LastMessage != nil {
				ts := a.LastMessage.Timestamp
				out[i].LastActivity = &ts
				out[i].LastMessage = a.LastMessage
			}
		}
	}
	sortByActivity(out)
	return out, nil
}

// sortByActivity orders summaries by last activity descending with inactive
// threads last.
func sortByActivity(items []ThreadSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].LastActivity, items[j].LastActivity
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// Participants derives who may read and reply to t: the resource owner for
// resource threads, the requester and resource owner for booking threads,
// plus everyone who has sent or received a message.
func (s *ThreadService) Participants(ctx context.Context, t *domain.Thread) ([]string, error) {
	if !s.Enabled {
		return nil, ErrSchemaUnavailable
	}

	var implicit []string
	switch t.ContextType {
	case domain.ContextResource:
		if t.ContextID != nil {
			r, err := repo.GetResource(ctx, s.DB, *t.ContextID, true)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			if r != nil {
				implicit = append(implicit, r.OwnerID)
			}
		}
	case domain.ContextBooking:
		if t.ContextID != nil {
			b, err := repo.GetBooking(ctx, s.DB, *t.ContextID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			if b != nil {
				implicit = append(implicit, b.RequesterID)
				r, err := repo.GetResource(ctx, s.DB, b.ResourceID, true)
				if err != nil && !errors.Is(err, repo.ErrNotFound) {
					return nil, err
				}
				if r != nil {
					implicit = append(implicit, r.OwnerID)
				}
			}
		}
	}

	history, err := repo.MessageParticipants(ctx, s.DB, t.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(implicit)+len(history))
	out := make([]string, 0, len(implicit)+len(history))
	for _, id := range append(implicit, history...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// IsParticipant reports whether userID is among the derived participants of t.
func (s *ThreadService) IsParticipant(ctx context.Context, t *domain.Thread, userID string) (bool, error) {
	ids, err := s.Participants(ctx, t)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// Stats returns the message count and highest sequence of a thread for
// conditional responses.
func (s *ThreadService) Stats(ctx context.Context, threadID string) (int64, int64, error) {
	if !s.Enabled {
		return 0, 0, ErrSchemaUnavailable
	}
	return repo.ThreadStats(ctx, s.DB, threadID)
}
