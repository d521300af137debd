package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

// In-memory store fakes mirroring the mongo repository semantics closely
// enough for the service tests to exercise the real update shapes.

type memMessageStore struct {
	msgs map[string]*domain.Message
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{msgs: map[string]*domain.Message{}}
}

func (s *memMessageStore) Insert(_ context.Context, m *domain.Message) error {
	cp := *m
	s.msgs[m.ID] = &cp
	return nil
}

func (s *memMessageStore) FindByID(_ context.Context, id string) (*domain.Message, error) {
	m, ok := s.msgs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMessageStore) sorted(match func(*domain.Message) bool) []*domain.Message {
	var out []*domain.Message
	for _, m := range s.msgs {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memMessageStore) FindConversation(_ context.Context, userA, userB string) ([]*domain.Message, error) {
	return s.sorted(func(m *domain.Message) bool {
		return m.GroupID == "" &&
			((m.Sender == userA && m.Receiver == userB) || (m.Sender == userB && m.Receiver == userA))
	}), nil
}

func (s *memMessageStore) FindByGroup(_ context.Context, groupID string) ([]*domain.Message, error) {
	return s.sorted(func(m *domain.Message) bool { return m.GroupID == groupID }), nil
}

func (s *memMessageStore) AddToSeenSet(_ context.Context, messageID, userID string) error {
	m, ok := s.msgs[messageID]
	if !ok {
		return apperr.ErrNotFound
	}
	if !m.SeenByUser(userID) {
		m.SeenBy = append(m.SeenBy, userID)
	}
	m.Status = domain.StatusSeen
	return nil
}

func (s *memMessageStore) UpdateStatus(_ context.Context, messageID string, status domain.Status) error {
	m, ok := s.msgs[messageID]
	if !ok {
		return apperr.ErrNotFound
	}
	m.Status = status
	return nil
}

func (s *memMessageStore) PullReaction(_ context.Context, messageID, userID string) error {
	m, ok := s.msgs[messageID]
	if !ok {
		return apperr.ErrNotFound
	}
	m.Reactions = withoutReaction(m.Reactions, userID)
	return nil
}

func (s *memMessageStore) PushReaction(_ context.Context, messageID string, reaction domain.Reaction) error {
	m, ok := s.msgs[messageID]
	if !ok {
		return apperr.ErrNotFound
	}
	m.Reactions = append(m.Reactions, reaction)
	return nil
}

func (s *memMessageStore) Delete(_ context.Context, messageID string) error {
	if _, ok := s.msgs[messageID]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.msgs, messageID)
	return nil
}

func (s *memMessageStore) LatestInConversation(_ context.Context, userA, userB string) (*domain.Message, error) {
	all, _ := s.FindConversation(context.Background(), userA, userB)
	if len(all) == 0 {
		return nil, nil
	}
	return all[len(all)-1], nil
}

func (s *memMessageStore) MarkGroupSeen(_ context.Context, groupID, userID string) error {
	for _, m := range s.msgs {
		if m.GroupID != groupID || m.Sender == userID || m.SeenByUser(userID) {
			continue
		}
		m.SeenBy = append(m.SeenBy, userID)
		m.Status = domain.StatusSeen
	}
	return nil
}

func (s *memMessageStore) CountUnreadDirect(_ context.Context, userID, otherID string) (int64, error) {
	var n int64
	for _, m := range s.msgs {
		if m.GroupID == "" && m.Sender == otherID && m.Receiver == userID && !m.SeenByUser(userID) {
			n++
		}
	}
	return n, nil
}

func (s *memMessageStore) CountUnreadGroup(_ context.Context, groupID, userID string) (int64, error) {
	var n int64
	for _, m := range s.msgs {
		if m.GroupID == groupID && m.Sender != userID && !m.SeenByUser(userID) {
			n++
		}
	}
	return n, nil
}

type memConversationStore struct {
	convs map[string]*domain.Conversation
}

func newMemConversationStore() *memConversationStore {
	return &memConversationStore{convs: map[string]*domain.Conversation{}}
}

func (s *memConversationStore) Upsert(_ context.Context, userA, userB string, last *domain.LastMessage) error {
	id := domain.ConversationID(userA, userB)
	c, ok := s.convs[id]
	if !ok {
		c = &domain.Conversation{ID: id, Participants: []string{userA, userB}, CreatedAt: time.Now()}
		s.convs[id] = c
	}
	c.LastMessage = last
	c.UpdatedAt = time.Now()
	return nil
}

func (s *memConversationStore) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	c, ok := s.convs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

func (s *memConversationStore) SetLastMessage(_ context.Context, id string, last *domain.LastMessage) error {
	c, ok := s.convs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.LastMessage = last
	c.UpdatedAt = time.Now()
	return nil
}

func (s *memConversationStore) ListForUser(_ context.Context, userID string) ([]*domain.Conversation, error) {
	var out []*domain.Conversation
	for _, c := range s.convs {
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type memGroupStore struct {
	groups map[string]*domain.Group
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{groups: map[string]*domain.Group{}}
}

func (s *memGroupStore) Create(_ context.Context, g *domain.Group) error {
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s *memGroupStore) FindByID(_ context.Context, id string) (*domain.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *memGroupStore) AddMember(_ context.Context, groupID, userID string) error {
	g, ok := s.groups[groupID]
	if !ok {
		return apperr.ErrNotFound
	}
	if !g.IsMember(userID) {
		g.Members = append(g.Members, userID)
	}
	return nil
}

func (s *memGroupStore) RemoveMember(_ context.Context, groupID, userID string) error {
	g, ok := s.groups[groupID]
	if !ok {
		return apperr.ErrNotFound
	}
	g.Members = remove(g.Members, userID)
	g.Admins = remove(g.Admins, userID)
	return nil
}

func (s *memGroupStore) UpdateInfo(_ context.Context, groupID, name, image string) error {
	g, ok := s.groups[groupID]
	if !ok {
		return apperr.ErrNotFound
	}
	if name != "" {
		g.Name = name
	}
	if image != "" {
		g.Image = image
	}
	return nil
}

func (s *memGroupStore) ListForUser(_ context.Context, userID string) ([]*domain.Group, error) {
	var out []*domain.Group
	for _, g := range s.groups {
		if g.IsMember(userID) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memStoryStore struct {
	stories map[string]*domain.Story
}

func newMemStoryStore() *memStoryStore {
	return &memStoryStore{stories: map[string]*domain.Story{}}
}

func (s *memStoryStore) Insert(_ context.Context, st *domain.Story) error {
	cp := *st
	s.stories[st.ID] = &cp
	return nil
}

func (s *memStoryStore) FindByID(_ context.Context, id string) (*domain.Story, error) {
	st, ok := s.stories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *memStoryStore) Feed(_ context.Context, excludeUserID string, now time.Time) ([]*domain.Story, error) {
	var out []*domain.Story
	for _, st := range s.stories {
		if st.UserID == excludeUserID || !st.ExpiresAt.After(now) {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStoryStore) ActiveForUser(_ context.Context, userID string, now time.Time) (*domain.Story, error) {
	for _, st := range s.stories {
		if st.UserID == userID && st.ExpiresAt.After(now) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStoryStore) AddSeen(_ context.Context, storyID, userID string) error {
	st, ok := s.stories[storyID]
	if !ok {
		return apperr.ErrNotFound
	}
	for _, id := range st.SeenBy {
		if id == userID {
			return nil
		}
	}
	st.SeenBy = append(st.SeenBy, userID)
	return nil
}

func (s *memStoryStore) ReplaceReactions(_ context.Context, storyID string, reactions []domain.StoryReaction) error {
	st, ok := s.stories[storyID]
	if !ok {
		return apperr.ErrNotFound
	}
	st.Reactions = reactions
	return nil
}

type memUserStore struct {
	users map[string]*domain.User
}

func newMemUserStore(users ...*domain.User) *memUserStore {
	s := &memUserStore{users: map[string]*domain.User{}}
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
	return s
}

func (s *memUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) FindOthers(_ context.Context, excludeID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		if u.ID != excludeID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memUserStore) Search(_ context.Context, query string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		if u.Name == query || u.UserName == query {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, id, name, about, image string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if about != "" {
		u.About = about
	}
	if image != "" {
		u.Image = image
	}
	cp := *u
	return &cp, nil
}

// fakeUploader records uploads and hands back deterministic URLs.
type fakeUploader struct {
	calls []string
	err   error
}

func (u *fakeUploader) UploadFile(_ context.Context, path, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.calls = append(u.calls, path)
	return fmt.Sprintf("https://cdn.test/%s", path), nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, name, _ string, _ any) error {
	p.events = append(p.events, name)
	return nil
}

// fakeCache records pushes and invalidations by conversation id.
type fakeCache struct {
	pushed      []string
	invalidated []string
}

func (c *fakeCache) Push(_ context.Context, conversationID string, _ *domain.Message) error {
	c.pushed = append(c.pushed, conversationID)
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, conversationID string) error {
	c.invalidated = append(c.invalidated, conversationID)
	return nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
