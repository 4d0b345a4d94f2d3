package polls

import "time"

// Poll is a question with an ordered list of answer options. Votes reference
// options by index, so option order is part of the poll's identity.
type Poll struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Question  string    `bson:"question" json:"question"`
	Options   []string  `bson:"options" json:"options"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
