package domain

import "time"

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name"`
	UserName  string    `bson:"user_name" json:"userName"`
	About     string    `bson:"about,omitempty" json:"about,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
