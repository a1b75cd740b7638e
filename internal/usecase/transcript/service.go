package transcript

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/internal/domain/repositories"
	"github.com/teamflowdev/call-coordinator/pkg/config"
)

// BufferStore holds in-flight transcript fragments per room. Drain must
// have atomic-claim semantics: under concurrent drains of the same room
// exactly one caller receives the fragments.
type BufferStore interface {
	Push(ctx context.Context, roomID string, fragment entities.TranscriptFragment) (int64, error)
	Drain(ctx context.Context, roomID string) ([]entities.TranscriptFragment, error)
}

// Summarizer generates a meeting summary from rendered transcript text
type Summarizer interface {
	Summarize(ctx context.Context, roomID, content string) (*entities.MeetingSummary, error)
}

// Directory resolves display names for incoming fragments
type Directory interface {
	Profile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
}

// EventPublisher sends best-effort notifications to connected clients
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// EventSummaryReady is published after a summarization run persists
const EventSummaryReady = "meeting-summary-ready"

// maxRestoreRetries bounds the attempts to push drained fragments back
// after a failed summarization run.
const maxRestoreRetries = 3

// Service buffers live transcript fragments and runs the summarization
// pipeline once a room's buffer crosses the trigger threshold.
type Service struct {
	buffer      BufferStore
	summarizer  Summarizer
	directory   Directory
	publisher   EventPublisher
	callRepo    repositories.CallRepository
	summaryRepo repositories.SummaryRepository
	threshold   int
	runTimeout  time.Duration
	logger      *zap.Logger
}

// NewService creates a new transcript service
func NewService(
	buffer BufferStore,
	summarizer Summarizer,
	directory Directory,
	publisher EventPublisher,
	callRepo repositories.CallRepository,
	summaryRepo repositories.SummaryRepository,
	cfg *config.SummarizerConfig,
	logger *zap.Logger,
) *Service {
	threshold := 100
	runTimeout := 150 * time.Second
	if cfg != nil {
		if cfg.TriggerThreshold > 0 {
			threshold = cfg.TriggerThreshold
		}
		if cfg.Timeout > 0 {
			// Leave headroom above the summarizer call for the drain and
			// the persistence transaction.
			runTimeout = cfg.Timeout + 30*time.Second
		}
	}

	return &Service{
		buffer:      buffer,
		summarizer:  summarizer,
		directory:   directory,
		publisher:   publisher,
		callRepo:    callRepo,
		summaryRepo: summaryRepo,
		threshold:   threshold,
		runTimeout:  runTimeout,
		logger:      logger,
	}
}

// HandleTranscriptReceive resolves the speaker's display name, appends the
// fragment to the room buffer and, once the buffer length reaches the
// threshold, kicks off a detached summarization run. The caller never
// waits on that run and never sees its errors.
func (s *Service) HandleTranscriptReceive(ctx context.Context, roomID string, userID uuid.UUID, content string, timestamp time.Time) error {
	profile, err := s.directory.Profile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve speaker: %w", err)
	}

	length, err := s.buffer.Push(ctx, roomID, entities.TranscriptFragment{
		UserID:    userID,
		UserName:  profile.Name,
		Content:   content,
		Timestamp: timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to buffer fragment: %w", err)
	}

	if length >= int64(s.threshold) {
		s.triggerSummary(roomID)
	}
	return nil
}

// TriggerSummary starts a summarization run without waiting for the
// buffer threshold. The run happens asynchronously.
func (s *Service) TriggerSummary(roomID string) {
	s.triggerSummary(roomID)
}

// triggerSummary runs the pipeline in a detached goroutine. Errors and
// panics are logged, never propagated.
func (s *Service) triggerSummary(roomID string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("summarization run panicked",
					zap.String("room_id", roomID),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		if err := s.ProcessMeetingSummary(ctx, roomID); err != nil {
			s.logger.Error("summarization run failed",
				zap.String("room_id", roomID),
				zap.Error(err),
			)
		}
	}()
}

// ProcessMeetingSummary drains the room buffer, summarizes the fragments
// and persists transcripts, summary block and action items in one
// transaction. On failure the drained fragments are pushed back onto the
// buffer so they are picked up by a later run.
func (s *Service) ProcessMeetingSummary(ctx context.Context, roomID string) error {
	call, err := s.callRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("summary triggered for unknown room", zap.String("room_id", roomID))
			return nil
		}
		return fmt.Errorf("failed to resolve call: %w", err)
	}

	fragments, err := s.buffer.Drain(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to drain buffer: %w", err)
	}
	if len(fragments) == 0 {
		// Another drain already claimed the buffer, or nothing was pushed
		s.logger.Debug("nothing to summarize", zap.String("room_id", roomID))
		return nil
	}

	// Fragments may arrive out of order; summarize in spoken order
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Timestamp.Before(fragments[j].Timestamp)
	})

	result, err := s.summarizer.Summarize(ctx, roomID, renderFragments(fragments))
	if err != nil {
		s.restoreFragments(ctx, roomID, fragments)
		return fmt.Errorf("summarization failed: %w", err)
	}

	transcripts := make([]*entities.CallTranscript, 0, len(fragments))
	for _, f := range fragments {
		transcripts = append(transcripts, entities.TranscriptFromFragment(call.ID, f))
	}
	summary := &entities.CallSummaryBlock{
		CallID:  call.ID,
		Content: result.Summary,
	}
	items := make([]*entities.CallActionItem, 0, len(result.ActionItems))
	for _, content := range result.ActionItems {
		items = append(items, &entities.CallActionItem{
			CallID:  call.ID,
			Content: content,
			Status:  entities.ActionItemStatusSuggested,
		})
	}

	if err := s.summaryRepo.SaveSummaryRun(ctx, transcripts, summary, items); err != nil {
		s.restoreFragments(ctx, roomID, fragments)
		return fmt.Errorf("failed to persist summary run: %w", err)
	}

	s.logger.Info("summarization run persisted",
		zap.String("room_id", roomID),
		zap.Int("fragments", len(fragments)),
		zap.Int("action_items", len(items)),
	)

	if err := s.publisher.Publish(ctx, EventSummaryReady, map[string]string{"room_id": roomID}); err != nil {
		s.logger.Warn("summary event not delivered",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
	}
	return nil
}

// restoreFragments pushes drained-but-unpersisted fragments back onto the
// room buffer with bounded retries. Restored fragments do not re-trigger
// summarization by themselves; the next incoming fragment crossing the
// threshold does.
func (s *Service) restoreFragments(ctx context.Context, roomID string, fragments []entities.TranscriptFragment) {
	op := func() error {
		for len(fragments) > 0 {
			if _, err := s.buffer.Push(ctx, roomID, fragments[0]); err != nil {
				return err
			}
			fragments = fragments[1:]
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRestoreRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		s.logger.Error("drained fragments lost",
			zap.String("room_id", roomID),
			zap.Int("remaining", len(fragments)),
			zap.Error(err),
		)
	}
}

// renderFragments renders fragments as "Name: content" lines
func renderFragments(fragments []entities.TranscriptFragment) string {
	var b strings.Builder
	for i, f := range fragments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.UserName)
		b.WriteString(": ")
		b.WriteString(f.Content)
	}
	return b.String()
}
