package votes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepository implements Repository using a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, v *Vote) error {
	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *MongoRepository) CountByOption(ctx context.Context, pollID string) (map[int]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"pollId": pollID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$optionIndex",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[int]int64{}
	for cur.Next(ctx) {
		var row struct {
			OptionIndex int32 `bson:"_id"`
			Count       int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[int(row.OptionIndex)] = row.Count
	}
	return counts, cur.Err()
}

func (r *MongoRepository) DeleteByPoll(ctx context.Context, pollID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"pollId": pollID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
