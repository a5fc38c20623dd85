package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTeamRepository struct {
	coll *mongo.Collection
}

func NewMongoTeamRepository(database *mongo.Database, collection string) TeamRepository {
	return &mongoTeamRepository{coll: database.Collection(collection)}
}

func (m *mongoTeamRepository) Create(ctx context.Context, team *Team) error {
	now := time.Now().UTC()

	doc := *team
	doc.Members = nonNil(team.Members)
	doc.JoinRequests = nonNil(team.JoinRequests)
	doc.LookingFor = nonNil(team.LookingFor)
	doc.TechStack = nonNil(team.TechStack)
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}

	*team = doc
	return nil
}

func (m *mongoTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	team := &Team{}
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (m *mongoTeamRepository) Update(ctx context.Context, team *Team) error {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"hackathon_id":  team.HackathonID,
			"name":          team.Name,
			"description":   team.Description,
			"leader_id":     team.LeaderID,
			"members":       nonNil(team.Members),
			"join_requests": nonNil(team.JoinRequests),
			"looking_for":   nonNil(team.LookingFor),
			"tech_stack":    nonNil(team.TechStack),
			"status":        team.Status,
			"project_repo":  team.ProjectRepo,
			"version":       team.Version + 1,
			"updated_at":    now,
		},
	}

	res, err := m.coll.UpdateOne(ctx, versionFilter(team.ID, team.Version), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}

	team.Version++
	team.UpdatedAt = now
	return nil
}

// versionFilter matches the team only while it still has the version that was
// read. Documents created outside this service carry no version yet.
func versionFilter(id string, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$exists": false}}
	}
	return bson.M{"_id": id, "version": version}
}

func (m *mongoTeamRepository) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoTeamRepository) List(ctx context.Context, limit int) ([]*Team, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	teams := make([]*Team, 0, limit)
	if err = cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
