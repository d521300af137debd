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

type ConversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepo(coll *mongo.Collection) *ConversationRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants", Value: 1}},
		Options: options.Index().SetName("participants_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &ConversationRepo{coll: coll}
}

// Upsert creates the conversation document on first contact and refreshes
// the last-message pointer on every send.
func (r *ConversationRepo) Upsert(ctx context.Context, userA, userB string, last *domain.LastMessage) error {
	id := domain.ConversationID(userA, userB)
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"participants": []string{userA, userB},
			"last_message": last,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.coll.UpdateByID(ctx, id, update, options.Update().SetUpsert(true))
	return err
}

func (r *ConversationRepo) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepo) SetLastMessage(ctx context.Context, id string, last *domain.LastMessage) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"last_message": last,
		"updated_at":   time.Now().UTC(),
	}})
	return err
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.Conversation{}
	for cur.Next(ctx) {
		var c domain.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}
