package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

type UserService struct {
	store    UserStore
	uploader Uploader
	log      *zap.SugaredLogger
}

func NewUserService(store UserStore, uploader Uploader, log *zap.SugaredLogger) *UserService {
	return &UserService{store: store, uploader: uploader, log: log}
}

func (s *UserService) Current(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

func (s *UserService) Others(ctx context.Context, userID string) ([]*domain.User, error) {
	users, err := s.store.FindOthers(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	if query == "" {
		return nil, apperr.Validation("query is required")
	}
	users, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

type EditProfileInput struct {
	UserID           string
	Name             string
	About            string
	ImagePath        string
	ImageContentType string
}

func (s *UserService) EditProfile(ctx context.Context, in EditProfileInput) (*domain.User, error) {
	var image string
	if in.ImagePath != "" {
		url, err := s.uploader.UploadFile(ctx, in.ImagePath, in.ImageContentType)
		if err != nil {
			// profile text updates still apply when the upload fails
			s.log.Warnw("profile image upload failed", "user", in.UserID, "err", err)
		} else {
			image = url
		}
	}
	u, err := s.store.UpdateProfile(ctx, in.UserID, in.Name, in.About, image)
	if err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}
