package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(database *mongo.Database, collection string) UserRepository {
	return &mongoUserRepository{coll: database.Collection(collection)}
}

func (m *mongoUserRepository) List(ctx context.Context, limit int) ([]*User, error) {
	cur, err := m.coll.Find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, limit)
	if err = cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
