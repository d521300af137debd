package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(coll *mongo.Collection) *UserRepo {
	return &UserRepo{coll: coll}
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindOthers(ctx context.Context, excludeID string) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": excludeID}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.User{}
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *UserRepo) Search(ctx context.Context, query string) ([]*domain.User, error) {
	rx := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": rx},
		bson.M{"user_name": rx},
	}}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.User{}
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, name, about, image string) (*domain.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if about != "" {
		set["about"] = about
	}
	if image != "" {
		set["image"] = image
	}
	if len(set) > 0 {
		if _, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}
