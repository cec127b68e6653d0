package core

import (
	"context"
	"sync"
)

// DefaultMaxMessages bounds conversation history when no explicit bound is
// configured.
const DefaultMaxMessages = 64

// Memory is the interface for managing conversation history.
type Memory interface {
	// AddMessage appends a message to the conversation history.
	AddMessage(msg Message)

	// AddMessages appends multiple messages to the conversation history.
	AddMessages(msgs []Message)

	// History returns all messages in the conversation, oldest first.
	History() []Message

	// Clear removes all messages from the conversation.
	Clear()

	// Len returns the number of messages in the conversation.
	Len() int

	// SetMessages replaces the entire conversation history.
	SetMessages(msgs []Message)
}

// BoundedStore is a thread-safe in-memory Memory implementation with a
// maximum length. When an append exceeds the bound, messages are evicted
// from the oldest end until the store fits. A leading system message is
// pinned: it survives eviction, and the oldest message after it goes
// instead.
type BoundedStore struct {
	mu       sync.RWMutex
	max      int
	messages []Message
}

// NewBoundedStore creates a store bounded to max messages.
// A max of zero or less means unbounded.
func NewBoundedStore(max int) *BoundedStore {
	return &BoundedStore{
		max:      max,
		messages: make([]Message, 0),
	}
}

// AddMessage appends a message, evicting from the oldest end if the bound
// is exceeded.
func (m *BoundedStore) AddMessage(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	m.trimLocked()
}

// AddMessages appends multiple messages, then trims to the bound.
func (m *BoundedStore) AddMessages(msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
	m.trimLocked()
}

// History returns a copy of all messages, oldest first.
func (m *BoundedStore) History() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Message, len(m.messages))
	copy(result, m.messages)
	return result
}

// Clear removes all messages from the store.
func (m *BoundedStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = make([]Message, 0)
}

// Len returns the number of messages in the store.
func (m *BoundedStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// SetMessages replaces the entire history, then trims to the bound.
func (m *BoundedStore) SetMessages(msgs []Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = make([]Message, len(msgs))
	copy(m.messages, msgs)
	m.trimLocked()
}

// trimLocked evicts oldest messages until the store fits the bound.
// Callers must hold mu.
func (m *BoundedStore) trimLocked() {
	if m.max <= 0 {
		return
	}
	for len(m.messages) > m.max {
		if m.messages[0].Role == RoleSystem && len(m.messages) > 1 {
			// Pinned system message: evict the message after it.
			m.messages = append(m.messages[:1], m.messages[2:]...)
		} else {
			m.messages = m.messages[1:]
		}
	}
}

// Compile-time check that BoundedStore implements Memory.
var _ Memory = (*BoundedStore)(nil)

// -----------------------------------------------------------------------------
// Conversation Session
// -----------------------------------------------------------------------------

// Conversation provides a high-level API for multi-turn conversations with
// automatic, bounded history management.
//
// A Conversation is NOT safe for concurrent Send calls. The design assumes
// at most one call in flight per instance; callers needing parallelism must
// serialize sends or use separate Conversation instances.
type Conversation struct {
	memory Memory
	client *Client
	model  ModelID
	system string // optional system message, pinned across trims and Clear
	max    int
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithSystemMessage sets a system message for the conversation.
func WithSystemMessage(system string) ConversationOption {
	return func(c *Conversation) {
		c.system = system
	}
}

// WithMemoryStore sets a custom memory store for the conversation.
func WithMemoryStore(memory Memory) ConversationOption {
	return func(c *Conversation) {
		c.memory = memory
	}
}

// WithMaxMessages sets the history bound. Ignored when a custom memory
// store is supplied. Defaults to DefaultMaxMessages.
func WithMaxMessages(n int) ConversationOption {
	return func(c *Conversation) {
		c.max = n
	}
}

// NewConversation creates a new conversation session with the given client
// and model.
func NewConversation(client *Client, model ModelID, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		client: client,
		model:  model,
		max:    DefaultMaxMessages,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.memory == nil {
		c.memory = NewBoundedStore(c.max)
	}

	if c.system != "" {
		c.memory.AddMessage(Message{
			Role:    RoleSystem,
			Content: c.system,
		})
	}

	return c
}

// Send sends a user message and returns the assistant's response.
// Uses context.Background() internally.
func (c *Conversation) Send(userMessage string) (*ChatResponse, error) {
	return c.SendWithContext(context.Background(), userMessage)
}

// SendWithContext appends the user message, issues a non-streaming request
// carrying the full current history, appends the assistant's reply, and
// returns it.
func (c *Conversation) SendWithContext(ctx context.Context, userMessage string) (*ChatResponse, error) {
	c.memory.AddMessage(Message{
		Role:    RoleUser,
		Content: userMessage,
	})

	builder := c.client.Chat(c.model)
	for _, msg := range c.memory.History() {
		switch msg.Role {
		case RoleSystem:
			builder = builder.System(msg.Content)
		case RoleUser:
			builder = builder.User(msg.Content)
		case RoleAssistant:
			builder = builder.Assistant(msg.Content)
		}
	}

	resp, err := builder.GetResponse(ctx)
	if err != nil {
		return nil, err
	}

	c.memory.AddMessage(Message{
		Role:    RoleAssistant,
		Content: resp.Output,
	})

	return resp, nil
}

// History returns the full conversation history.
func (c *Conversation) History() []Message {
	return c.memory.History()
}

// Clear resets the conversation history.
// If a system message was provided, it is re-added.
func (c *Conversation) Clear() {
	c.memory.Clear()
	if c.system != "" {
		c.memory.AddMessage(Message{
			Role:    RoleSystem,
			Content: c.system,
		})
	}
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return c.memory.Len()
}
