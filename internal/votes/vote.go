package votes

import "time"

// Vote records one choice on a poll. UserID is nil for anonymous voters;
// OptionIndex points into the poll's options slice.
type Vote struct {
	ID          string    `bson:"_id" json:"id"`
	PollID      string    `bson:"pollId" json:"pollId"`
	UserID      *string   `bson:"userId,omitempty" json:"userId,omitempty"`
	OptionIndex int       `bson:"optionIndex" json:"optionIndex"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
