package usecase_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/m-mizutani/goerr/v2"
)

// mockService is a hand-written in-memory stand-in for the Discord API.
type mockService struct {
	mu sync.Mutex

	messages    map[types.ChannelID][]*discord.Message // newest-first
	users       map[types.UserID]string
	threads     map[types.ThreadID][]*discord.MessagePayload
	threadNames map[types.ThreadID]string
	posts       map[types.ChannelID][]*discord.MessagePayload
	forumTags   map[types.ChannelID][]discord.ForumTagInfo
	appliedTags map[types.ThreadID][]types.TagID
	deniedRoles map[types.ChannelID][]types.RoleID
	components  map[types.MessageID][]discordgo.MessageComponent
	deleted     []types.ChannelID

	nextID        int
	threadCreates int
	tagCreates    int
	fetchDelay    time.Duration

	failCreateChannel  bool
	failCreateThread   bool
	failCreateForumTag bool
	failDeleteChannel  bool
	failPostTo         map[types.ChannelID]bool
}

func newMockService() *mockService {
	return &mockService{
		messages:    map[types.ChannelID][]*discord.Message{},
		users:       map[types.UserID]string{"U1": "steve", "U2": "alex"},
		threads:     map[types.ThreadID][]*discord.MessagePayload{},
		threadNames: map[types.ThreadID]string{},
		posts:       map[types.ChannelID][]*discord.MessagePayload{},
		forumTags:   map[types.ChannelID][]discord.ForumTagInfo{},
		appliedTags: map[types.ThreadID][]types.TagID{},
		deniedRoles: map[types.ChannelID][]types.RoleID{},
		components:  map[types.MessageID][]discordgo.MessageComponent{},
		failPostTo:  map[types.ChannelID]bool{},
	}
}

func (m *mockService) seedMessages(channelID types.ChannelID, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := make([]*discord.Message, 0, n)
	for i := n; i >= 1; i-- {
		msgs = append(msgs, &discord.Message{
			ID:         types.MessageID(fmt.Sprintf("%s-m%04d", channelID, i)),
			AuthorID:   "U1",
			AuthorName: "steve",
			Content:    fmt.Sprintf("msg %d", i),
		})
	}
	m.messages[channelID] = msgs
}

func (m *mockService) ChannelMessages(ctx context.Context, channelID types.ChannelID, limit int, beforeID types.MessageID) ([]*discord.Message, error) {
	if m.fetchDelay > 0 {
		time.Sleep(m.fetchDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.messages[channelID]
	start := 0
	if beforeID != "" {
		for i, msg := range history {
			if msg.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(history) {
		return nil, nil
	}
	end := start + limit
	if end > len(history) {
		end = len(history)
	}
	return history[start:end], nil
}

func (m *mockService) User(ctx context.Context, userID types.UserID) (*discord.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, ok := m.users[userID]
	if !ok {
		return nil, goerr.New("unknown user", goerr.V("user_id", userID))
	}
	return &discord.User{ID: userID, Username: name}, nil
}

func (m *mockService) CreateCaseChannel(ctx context.Context, guildID types.GuildID, categoryID types.ChannelID, name string, creatorID types.UserID, staffRoleID types.RoleID) (types.ChannelID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateChannel {
		return "", goerr.New("channel creation refused")
	}
	m.nextID++
	return types.ChannelID(fmt.Sprintf("C%d", m.nextID)), nil
}

func (m *mockService) CreateForumThread(ctx context.Context, forumID types.ChannelID, name string, msg *discord.MessagePayload) (types.ThreadID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateThread {
		return "", goerr.New("thread creation refused")
	}
	m.nextID++
	m.threadCreates++
	id := types.ThreadID(fmt.Sprintf("T%d", m.nextID))
	m.threads[id] = []*discord.MessagePayload{msg}
	m.threadNames[id] = name
	return id, nil
}

func (m *mockService) PostMessage(ctx context.Context, channelID types.ChannelID, msg *discord.MessagePayload) (types.MessageID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPostTo[channelID] {
		return "", goerr.New("post refused", goerr.V("channel_id", channelID))
	}

	if payloads, ok := m.threads[types.ThreadID(channelID)]; ok {
		m.threads[types.ThreadID(channelID)] = append(payloads, msg)
	} else {
		m.posts[channelID] = append(m.posts[channelID], msg)
	}

	m.nextID++
	return types.MessageID(fmt.Sprintf("M%d", m.nextID)), nil
}

func (m *mockService) ForumTags(ctx context.Context, forumID types.ChannelID) ([]discord.ForumTagInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]discord.ForumTagInfo{}, m.forumTags[forumID]...), nil
}

func (m *mockService) CreateForumTag(ctx context.Context, forumID types.ChannelID, name, emoji string) (types.TagID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateForumTag {
		return "", goerr.New("tag creation refused", goerr.V("forum_id", forumID))
	}

	for _, t := range m.forumTags[forumID] {
		if t.Name == name {
			return t.ID, nil
		}
	}
	m.nextID++
	m.tagCreates++
	id := types.TagID(fmt.Sprintf("tag%d", m.nextID))
	m.forumTags[forumID] = append(m.forumTags[forumID], discord.ForumTagInfo{ID: id, Name: name, Emoji: emoji})
	return id, nil
}

func (m *mockService) ApplyThreadTags(ctx context.Context, threadID types.ThreadID, tagIDs []types.TagID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appliedTags[threadID] = append([]types.TagID{}, tagIDs...)
	return nil
}

func (m *mockService) DenyRoleView(ctx context.Context, channelID types.ChannelID, roleID types.RoleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deniedRoles[channelID] = append(m.deniedRoles[channelID], roleID)
	return nil
}

func (m *mockService) EditMessageComponents(ctx context.Context, channelID types.ChannelID, messageID types.MessageID, components []discordgo.MessageComponent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[messageID] = components
	return nil
}

func (m *mockService) DeleteChannel(ctx context.Context, channelID types.ChannelID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDeleteChannel {
		return goerr.New("delete refused", goerr.V("channel_id", channelID))
	}
	m.deleted = append(m.deleted, channelID)
	return nil
}

func (m *mockService) DownloadAttachment(ctx context.Context, url string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("image-bytes")), nil
}

func (m *mockService) deletedChannels() []types.ChannelID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.ChannelID{}, m.deleted...)
}

func (m *mockService) threadPayloads(id types.ThreadID) []*discord.MessagePayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*discord.MessagePayload{}, m.threads[id]...)
}

func (m *mockService) createdThreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threadCreates
}

func (m *mockService) createdTagCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tagCreates
}

func (m *mockService) seedForumTag(forumID types.ChannelID, id types.TagID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forumTags[forumID] = append(m.forumTags[forumID], discord.ForumTagInfo{ID: id, Name: name})
}
