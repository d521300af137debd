package domain

import "time"

// Group invariants: the creator is a member and an admin at creation, admins
// are always a subset of members, and removing a member also removes them
// from admins. Only admins mutate membership or metadata.
type Group struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Members   []string  `bson:"members" json:"members"`
	Admins    []string  `bson:"admins" json:"admins"`
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (g *Group) IsMember(userID string) bool { return contains(g.Members, userID) }
func (g *Group) IsAdmin(userID string) bool  { return contains(g.Admins, userID) }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
