package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepository is an in-memory Repository for exercising conversation
// semantics without a database.
type fakeRepository struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*Conversation
	messages      map[uuid.UUID][]*Message
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		conversations: make(map[uuid.UUID]*Conversation),
		messages:      make(map[uuid.UUID][]*Message),
	}
}

func (f *fakeRepository) EnsureConversation(_ context.Context, conv *Conversation) (*Conversation, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.conversations {
		if existing.ParticipantLow == conv.ParticipantLow &&
			existing.ParticipantHigh == conv.ParticipantHigh &&
			existing.ProjectID == conv.ProjectID {
			return existing, false, nil
		}
	}
	f.conversations[conv.ID] = conv
	return conv, true, nil
}

func (f *fakeRepository) GetConversation(_ context.Context, id uuid.UUID) (*Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conversations[id], nil
}

func (f *fakeRepository) ListConversationsForUser(_ context.Context, userID uuid.UUID) ([]*Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Conversation
	for _, conv := range f.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, conv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (f *fakeRepository) AppendMessage(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	conv, ok := f.conversations[msg.ConversationID]
	if !ok {
		return ErrConversationNotFound
	}
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], msg)
	conv.LastMessage = LastMessage{Message: msg}
	conv.LastActivity = msg.Timestamp
	return nil
}

func (f *fakeRepository) ListMessages(_ context.Context, conversationID uuid.UUID, limit int) ([]*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msgs := append([]*Message(nil), f.messages[conversationID]...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeRepository) MarkMessagesRead(_ context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for _, msg := range f.messages[conversationID] {
		if msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			updated++
		}
	}
	return updated, nil
}

// recordingNotifier captures pushed events per user
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[uuid.UUID][]string)}
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[userID] = append(n.events[userID], event)
}

func bootstrapParams(developer, investor, project uuid.UUID) *BootstrapParams {
	return &BootstrapParams{
		DeveloperID:  developer,
		InvestorID:   investor,
		ProjectID:    project,
		ProjectTitle: "DevMatch",
		Details: ParticipantDetails{
			developer.String(): {Name: "Alex Rivera", Role: "developer"},
			investor.String():  {Name: "Sarah Chen", Role: "investor"},
		},
	}
}

func TestBootstrapCreatesSeededConversation(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)
	require.NotNil(t, conv)

	msgs, err := service.Messages(context.Background(), developer, conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// The greeting is authored by the investor and names the project
	assert.Equal(t, investor, msgs[0].SenderID)
	assert.Contains(t, msgs[0].Content, "DevMatch")
}

func TestBootstrapIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()

	first, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	// Repeated accepts, including with the participants swapped, reuse the thread
	second, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	swapped := bootstrapParams(developer, investor, project)
	swapped.DeveloperID, swapped.InvestorID = swapped.InvestorID, swapped.DeveloperID
	third, err := service.Bootstrap(context.Background(), swapped)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)

	// No duplicate greeting
	msgs, err := service.Messages(context.Background(), developer, first.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestBootstrapSeparatesProjects(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor := uuid.New(), uuid.New()

	first, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, uuid.New()))
	require.NoError(t, err)
	second, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, uuid.New()))
	require.NoError(t, err)

	// Same pair, different projects: two threads
	assert.NotEqual(t, first.ID, second.ID)
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sender := developer
		if i%2 == 1 {
			sender = investor
		}
		_, err := service.Send(context.Background(), sender, conv.ID, &SendMessageRequest{
			Content: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	msgs, err := service.Messages(context.Background(), developer, conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 6)

	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp),
			"messages must be ordered oldest first")
	}
}

func TestSendDenormalizesLastMessage(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	sent, err := service.Send(context.Background(), developer, conv.ID, &SendMessageRequest{Content: "We shipped the beta!"})
	require.NoError(t, err)

	convs, err := service.ListConversations(context.Background(), investor)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.NotNil(t, convs[0].LastMessage.Message)
	assert.Equal(t, sent.ID, convs[0].LastMessage.Message.ID)
	assert.Equal(t, sent.Timestamp, convs[0].LastActivity)
}

func TestSendCarriesAttachments(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	sent, err := service.Send(context.Background(), developer, conv.ID, &SendMessageRequest{
		Content: "Here's the pitch deck.",
		Attachments: Attachments{
			{Name: "pitch-deck.pdf", URL: "https://files.example.com/pitch-deck.pdf", Type: "application/pdf"},
		},
	})
	require.NoError(t, err)

	// An attachment without an explicit type makes it a file message
	assert.Equal(t, TypeFile, sent.Type)

	msgs, err := service.Messages(context.Background(), investor, conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Len(t, msgs[1].Attachments, 1)
	assert.Equal(t, "pitch-deck.pdf", msgs[1].Attachments[0].Name)
}

func TestSendRejectsOutsiders(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	_, err = service.Send(context.Background(), uuid.New(), conv.ID, &SendMessageRequest{Content: "let me in"})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = service.Send(context.Background(), developer, conv.ID, &SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendNotifiesOtherParticipant(t *testing.T) {
	repo := newFakeRepository()
	notifier := newRecordingNotifier()
	service := NewService(repo, notifier, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	_, err = service.Send(context.Background(), developer, conv.ID, &SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	assert.Contains(t, notifier.events[investor], EventMessageNew)
	assert.NotContains(t, notifier.events[developer], EventMessageNew)
}

func TestMarkRead(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, nil, zap.NewNop())

	developer, investor, project := uuid.New(), uuid.New(), uuid.New()
	conv, err := service.Bootstrap(context.Background(), bootstrapParams(developer, investor, project))
	require.NoError(t, err)

	_, err = service.Send(context.Background(), investor, conv.ID, &SendMessageRequest{Content: "question about the roadmap"})
	require.NoError(t, err)

	// Developer reads: seed greeting + new message flip to read
	updated, err := service.MarkRead(context.Background(), developer, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	// Second pass is a no-op
	updated, err = service.MarkRead(context.Background(), developer, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestSortParticipants(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	lowAB, highAB := SortParticipants(a, b)
	lowBA, highBA := SortParticipants(b, a)

	assert.Equal(t, lowAB, lowBA)
	assert.Equal(t, highAB, highBA)
}
