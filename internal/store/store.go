package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/visualtutor-ai/tutor-platform/internal/model"
)

const (
	// StreamName is the name of the conversation turns stream.
	StreamName = "LESSONS"

	// SubjectPrefix is the prefix for all turn subjects.
	SubjectPrefix = "lesson"

	bucketConversations = "conversation_meta"
	bucketUserMemory    = "user_memory"
	bucketProfiles      = "profiles"
	bucketDocuments     = "user_documents"

	maxDocuments = 10
)

// ErrNotFound is returned when a conversation or record does not exist or is
// not owned by the caller.
var ErrNotFound = errors.New("not found")

// Store is the persistence adapter: conversation turns go to an append-only
// JetStream stream, everything keyed by a single id lives in KV buckets.
type Store struct {
	client *Client

	conversations jetstream.KeyValue
	memory        jetstream.KeyValue
	profiles      jetstream.KeyValue
	documents     jetstream.KeyValue
}

// New creates a store on an established NATS client. Ensure must be called
// before use.
func New(client *Client) *Store {
	return &Store{client: client}
}

// Ensure creates the turns stream and KV buckets if they do not exist.
func (s *Store) Ensure(ctx context.Context) error {
	js := s.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err != nil {
		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        StreamName,
			Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      365 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Compression: jetstream.S2Compression,
			DenyDelete:  true,
			DenyPurge:   true,
			Description: "Append-only tutoring conversation turns",
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	buckets := []struct {
		name string
		dst  *jetstream.KeyValue
	}{
		{bucketConversations, &s.conversations},
		{bucketUserMemory, &s.memory},
		{bucketProfiles, &s.profiles},
		{bucketDocuments, &s.documents},
	}
	for _, b := range buckets {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: b.name,
		})
		if err != nil {
			return fmt.Errorf("failed to create KV bucket %s: %w", b.name, err)
		}
		*b.dst = kv
	}

	return nil
}

// turnSubject returns the stream subject for one conversation turn.
func turnSubject(userID, conversationID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s.msg.%s", SubjectPrefix, userID, conversationID, role)
}

func conversationKey(userID, conversationID string) string {
	return userID + "." + conversationID
}

// CreateConversation creates conversation metadata.
func (s *Store) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if _, err := s.conversations.Put(ctx, conversationKey(conv.UserID, conv.ID), data); err != nil {
		return fmt.Errorf("failed to store conversation: %w", err)
	}
	return nil
}

// GetConversation returns a conversation owned by the user.
func (s *Store) GetConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	entry, err := s.conversations.Get(ctx, conversationKey(userID, conversationID))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv model.Conversation
	if err := json.Unmarshal(entry.Value(), &conv); err != nil {
		return nil, fmt.Errorf("conversation record corrupt: %w", err)
	}
	return &conv, nil
}

// ListConversations returns the user's conversations ordered by recency.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	lister, err := s.conversations.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	prefix := userID + "."
	convs := []model.Conversation{}
	for key := range lister.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, err := s.conversations.Get(ctx, key)
		if err != nil {
			continue
		}
		var conv model.Conversation
		if err := json.Unmarshal(entry.Value(), &conv); err != nil {
			continue
		}
		convs = append(convs, conv)
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}

// touchConversation bumps updated_at and the turn count after an append.
func (s *Store) touchConversation(ctx context.Context, userID, conversationID string) {
	conv, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return
	}
	conv.UpdatedAt = time.Now()
	conv.MessageCount++
	data, err := json.Marshal(conv)
	if err != nil {
		return
	}
	s.conversations.Put(ctx, conversationKey(userID, conversationID), data)
}

// AppendTurn appends a turn to the conversation stream. Prior turns are
// never mutated.
func (s *Store) AppendTurn(ctx context.Context, msg *model.Message) (uint64, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal turn: %w", err)
	}

	ack, err := s.client.JetStream().Publish(ctx, turnSubject(msg.UserID, msg.ConversationID, msg.Role), data)
	if err != nil {
		return 0, fmt.Errorf("failed to append turn: %w", err)
	}

	s.touchConversation(ctx, msg.UserID, msg.ConversationID)
	return ack.Sequence, nil
}

// ListMessages returns the conversation's most recent turns in time order.
// The stream is drained from the start for the conversation's subject and
// only the last limit turns are kept, so long conversations window to their
// tail, not their head.
func (s *Store) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	js := s.client.JetStream()
	consumer, err := js.CreateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		FilterSubject: fmt.Sprintf("%s.%s.%s.msg.>", SubjectPrefix, userID, conversationID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 100
	messages := []model.Message{}
	for {
		batch, err := consumer.Fetch(batchSize, jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch turns: %w", err)
		}

		received := 0
		for msg := range batch.Messages() {
			received++
			var message model.Message
			if err := json.Unmarshal(msg.Data(), &message); err != nil {
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				message.Sequence = meta.Sequence.Stream
			}
			messages = append(messages, message)
		}

		if batch.Error() != nil && !errors.Is(batch.Error(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("batch error: %w", batch.Error())
		}

		messages = keepTail(messages, limit)
		if received < batchSize {
			break
		}
	}

	return messages, nil
}

// keepTail returns the last limit messages, preserving order.
func keepTail(messages []model.Message, limit int) []model.Message {
	if len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}

// GetUserMemory reads the user's personalization record. Absence is not an
// error; the caller substitutes defaults.
func (s *Store) GetUserMemory(ctx context.Context, userID string) (*model.UserMemory, error) {
	entry, err := s.memory.Get(ctx, userID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user memory: %w", err)
	}

	var mem model.UserMemory
	if err := json.Unmarshal(entry.Value(), &mem); err != nil {
		return nil, fmt.Errorf("user memory record corrupt: %w", err)
	}
	return &mem, nil
}

// PutUserMemory upserts the user's personalization record.
func (s *Store) PutUserMemory(ctx context.Context, mem *model.UserMemory) error {
	data, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("failed to marshal user memory: %w", err)
	}
	if _, err := s.memory.Put(ctx, mem.UserID, data); err != nil {
		return fmt.Errorf("failed to store user memory: %w", err)
	}
	return nil
}

// TouchUserMemory updates last_active to now. Overwrite-only with the
// current timestamp and no version check: concurrent touches race and the
// last write wins.
func (s *Store) TouchUserMemory(ctx context.Context, userID string) error {
	mem, err := s.GetUserMemory(ctx, userID)
	if err != nil {
		return err
	}
	if mem == nil {
		mem = model.DefaultUserMemory(userID)
	}
	mem.LastActive = time.Now()
	return s.PutUserMemory(ctx, mem)
}

// GetProfile reads the user's identity projection.
func (s *Store) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	entry, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p model.Profile
	if err := json.Unmarshal(entry.Value(), &p); err != nil {
		return nil, fmt.Errorf("profile record corrupt: %w", err)
	}
	return &p, nil
}

// PutProfile upserts the user's identity projection.
func (s *Store) PutProfile(ctx context.Context, p *model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if _, err := s.profiles.Put(ctx, p.ID, data); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// RecordDocument prepends uploaded-file metadata to the user's recent
// document list, keeping the most recent entries only.
func (s *Store) RecordDocument(ctx context.Context, userID string, doc model.Document) error {
	docs, err := s.ListDocuments(ctx, userID)
	if err != nil {
		return err
	}

	docs = append([]model.Document{doc}, docs...)
	if len(docs) > maxDocuments {
		docs = docs[:maxDocuments]
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	if _, err := s.documents.Put(ctx, userID, data); err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	return nil
}

// ListDocuments returns the user's recent uploaded-document metadata, newest
// first.
func (s *Store) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	entry, err := s.documents.Get(ctx, userID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return []model.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	var docs []model.Document
	if err := json.Unmarshal(entry.Value(), &docs); err != nil {
		return nil, fmt.Errorf("document record corrupt: %w", err)
	}
	return docs, nil
}
