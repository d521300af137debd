package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

type GroupService struct {
	store    GroupStore
	msgs     MessageStore
	uploader Uploader
	log      *zap.SugaredLogger
}

func NewGroupService(store GroupStore, msgs MessageStore, uploader Uploader, log *zap.SugaredLogger) *GroupService {
	return &GroupService{store: store, msgs: msgs, uploader: uploader, log: log}
}

type CreateGroupInput struct {
	Creator          string
	Name             string
	Members          []string
	ImagePath        string
	ImageContentType string
}

// Create builds a group with the creator as both member and admin.
func (s *GroupService) Create(ctx context.Context, in CreateGroupInput) (*domain.Group, error) {
	if in.Creator == "" || in.Name == "" {
		return nil, apperr.Validation("group name and creator required")
	}
	members := []string{in.Creator}
	seen := map[string]bool{in.Creator: true}
	for _, m := range in.Members {
		if m != "" && !seen[m] {
			members = append(members, m)
			seen[m] = true
		}
	}

	var image string
	if in.ImagePath != "" {
		url, err := s.uploader.UploadFile(ctx, in.ImagePath, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		image = url
	}

	g := &domain.Group{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Image:     image,
		Members:   members,
		Admins:    []string{in.Creator},
		CreatedBy: in.Creator,
	}
	if err := s.store.Create(ctx, g); err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

func (s *GroupService) Find(ctx context.Context, id string) (*domain.Group, error) {
	g, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

// AddMember admits userID to the group. Only admins may add members.
func (s *GroupService) AddMember(ctx context.Context, groupID, actorID, userID string) (*domain.Group, error) {
	g, err := s.store.FindByID(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !g.IsAdmin(actorID) {
		return nil, apperr.Authorization("only admins can add members")
	}
	if userID == "" {
		return nil, apperr.Validation("user id required")
	}
	if !g.IsMember(userID) {
		if err := s.store.AddMember(ctx, groupID, userID); err != nil {
			return nil, storeErr(err)
		}
		g.Members = append(g.Members, userID)
	}
	return g, nil
}

// RemoveMember expels userID, dropping any admin role with the membership.
// Removing the only admin of a non-empty group is rejected so the group is
// never left admin-less.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, userID string) (*domain.Group, error) {
	g, err := s.store.FindByID(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !g.IsAdmin(actorID) {
		return nil, apperr.Authorization("only admins can remove members")
	}
	if g.IsAdmin(userID) && len(g.Admins) == 1 && len(g.Members) > 1 {
		return nil, apperr.Validation("cannot remove the only admin of a group")
	}
	if err := s.store.RemoveMember(ctx, groupID, userID); err != nil {
		return nil, storeErr(err)
	}
	g.Members = remove(g.Members, userID)
	g.Admins = remove(g.Admins, userID)
	return g, nil
}

type UpdateGroupInput struct {
	GroupID          string
	Actor            string
	Name             string
	ImagePath        string
	ImageContentType string
}

// UpdateInfo edits group metadata. Admin only.
func (s *GroupService) UpdateInfo(ctx context.Context, in UpdateGroupInput) (*domain.Group, error) {
	g, err := s.store.FindByID(ctx, in.GroupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !g.IsAdmin(in.Actor) {
		return nil, apperr.Authorization("only admins can update group info")
	}
	var image string
	if in.ImagePath != "" {
		url, err := s.uploader.UploadFile(ctx, in.ImagePath, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		image = url
	}
	if err := s.store.UpdateInfo(ctx, in.GroupID, in.Name, image); err != nil {
		return nil, storeErr(err)
	}
	if in.Name != "" {
		g.Name = in.Name
	}
	if image != "" {
		g.Image = image
	}
	return g, nil
}

type GroupWithUnread struct {
	*domain.Group
	UnreadCount int64 `json:"unreadCount"`
}

// ListWithUnread returns the user's groups with pull-computed unread counts.
func (s *GroupService) ListWithUnread(ctx context.Context, userID string) ([]GroupWithUnread, error) {
	groups, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]GroupWithUnread, 0, len(groups))
	for _, g := range groups {
		unread, err := s.msgs.CountUnreadGroup(ctx, g.ID, userID)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, GroupWithUnread{Group: g, UnreadCount: unread})
	}
	return out, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
