package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(coll *mongo.Collection) *MessageRepo {
	for _, ix := range []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("direct_idx"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("group_idx"),
		},
	} {
		_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	}
	return &MessageRepo{coll: coll}
}

func (r *MessageRepo) Insert(ctx context.Context, m *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MessageRepo) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindConversation returns every message exchanged between the two users in
// either direction, ascending by creation time. The result is the same
// whichever side is queried first.
func (r *MessageRepo) FindConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userA, "receiver": userB},
		bson.M{"sender": userB, "receiver": userA},
	}}
	return r.findSorted(ctx, filter)
}

func (r *MessageRepo) FindByGroup(ctx context.Context, groupID string) ([]*domain.Message, error) {
	return r.findSorted(ctx, bson.M{"group_id": groupID})
}

func (r *MessageRepo) findSorted(ctx context.Context, filter bson.M) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*domain.Message{}
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

// AddToSeenSet records that userID saw the message. The $addToSet keeps the
// seen-set unique under concurrent markers; status moves to seen in the same
// document update so it can never lag behind a non-empty seen-set.
func (r *MessageRepo) AddToSeenSet(ctx context.Context, messageID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, messageID, bson.M{
		"$addToSet": bson.M{"seen_by": userID},
		"$set":      bson.M{"status": domain.StatusSeen},
	})
	return err
}

func (r *MessageRepo) UpdateStatus(ctx context.Context, messageID string, status domain.Status) error {
	_, err := r.coll.UpdateByID(ctx, messageID, bson.M{"$set": bson.M{"status": status}})
	return err
}

// PullReaction removes userID's reaction, if any.
func (r *MessageRepo) PullReaction(ctx context.Context, messageID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, messageID, bson.M{
		"$pull": bson.M{"reactions": bson.M{"user_id": userID}},
	})
	return err
}

func (r *MessageRepo) PushReaction(ctx context.Context, messageID string, reaction domain.Reaction) error {
	_, err := r.coll.UpdateByID(ctx, messageID, bson.M{
		"$push": bson.M{"reactions": reaction},
	})
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, messageID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": messageID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// LatestInConversation returns the most recent message between the pair, or
// nil when the conversation is empty.
func (r *MessageRepo) LatestInConversation(ctx context.Context, userA, userB string) (*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userA, "receiver": userB},
		bson.M{"sender": userB, "receiver": userA},
	}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var m domain.Message
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// MarkGroupSeen adds userID to the seen-set of every group message they have
// not authored and not yet seen, in one batch mutation.
func (r *MessageRepo) MarkGroupSeen(ctx context.Context, groupID, userID string) error {
	filter := bson.M{
		"group_id": groupID,
		"sender":   bson.M{"$ne": userID},
		"seen_by":  bson.M{"$ne": userID},
	}
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{
		"$addToSet": bson.M{"seen_by": userID},
		"$set":      bson.M{"status": domain.StatusSeen},
	})
	return err
}

// CountUnreadDirect counts messages sent by otherID to userID that userID
// has not yet seen.
func (r *MessageRepo) CountUnreadDirect(ctx context.Context, userID, otherID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"receiver": userID,
		"sender":   otherID,
		"seen_by":  bson.M{"$ne": userID},
	})
}

func (r *MessageRepo) CountUnreadGroup(ctx context.Context, groupID, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"sender":   bson.M{"$ne": userID},
		"seen_by":  bson.M{"$ne": userID},
	})
}
