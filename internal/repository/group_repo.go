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

type GroupRepo struct {
	coll *mongo.Collection
}

func NewGroupRepo(coll *mongo.Collection) *GroupRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "members", Value: 1}},
		Options: options.Index().SetName("members_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &GroupRepo{coll: coll}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, g)
	return err
}

func (r *GroupRepo) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMember pulls the user from members and admins in one update so a
// removed member can never linger as an admin.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"members": userID, "admins": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (r *GroupRepo) UpdateInfo(ctx context.Context, groupID, name, image string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != "" {
		set["name"] = name
	}
	if image != "" {
		set["image"] = image
	}
	_, err := r.coll.UpdateByID(ctx, groupID, bson.M{"$set": set})
	return err
}

func (r *GroupRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.Group{}
	for cur.Next(ctx) {
		var g domain.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, cur.Err()
}
