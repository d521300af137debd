package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

type StoryRepo struct {
	coll *mongo.Collection
}

func NewStoryRepo(coll *mongo.Collection) *StoryRepo {
	// TTL index: the store reaps expired stories on its own; feed queries
	// still filter on expires_at so visibility never depends on reaping.
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("expires_idx").SetExpireAfterSeconds(0),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &StoryRepo{coll: coll}
}

func (r *StoryRepo) Insert(ctx context.Context, s *domain.Story) error {
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *StoryRepo) FindByID(ctx context.Context, id string) (*domain.Story, error) {
	var s domain.Story
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Feed returns other users' unexpired stories, newest first.
func (r *StoryRepo) Feed(ctx context.Context, excludeUserID string, now time.Time) ([]*domain.Story, error) {
	filter := bson.M{
		"user_id":    bson.M{"$ne": excludeUserID},
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.Story{}
	for cur.Next(ctx) {
		var s domain.Story
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

// ActiveForUser returns the user's own unexpired story, or nil.
func (r *StoryRepo) ActiveForUser(ctx context.Context, userID string, now time.Time) (*domain.Story, error) {
	filter := bson.M{"user_id": userID, "expires_at": bson.M{"$gt": now}}
	var s domain.Story
	if err := r.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *StoryRepo) AddSeen(ctx context.Context, storyID, userID string) error {
	res, err := r.coll.UpdateByID(ctx, storyID, bson.M{"$addToSet": bson.M{"seen_by": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ReplaceReactions swaps the whole reactions list. The service computes the
// replace-by-user semantics before calling.
func (r *StoryRepo) ReplaceReactions(ctx context.Context, storyID string, reactions []domain.StoryReaction) error {
	_, err := r.coll.UpdateByID(ctx, storyID, bson.M{"$set": bson.M{"reactions": reactions}})
	return err
}
