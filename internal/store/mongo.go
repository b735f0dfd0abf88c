package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// MongoStore implements Store on top of a mongo database handle. The handle
// is injected explicitly; connection lifecycle belongs to the caller.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a new mongo-backed store.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

var _ Store = (*MongoStore)(nil)

// EnsureIndexes creates the indexes the queries rely on: unique wallet per
// person, unique name per collection, and the owner/contract lookups on
// NFT and Activity.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		domain.CollectionPerson: {
			{Keys: bson.D{{Key: "wallet", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		domain.CollectionNFTCollection: {
			{Keys: bson.D{{Key: "contract", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "creator", Value: 1}}},
		},
		domain.CollectionNFT: {
			{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "index", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		domain.CollectionActivity: {
			{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "from", Value: 1}}},
			{Keys: bson.D{{Key: "to", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
	}

	return nil
}

func (s *MongoStore) GetPerson(ctx context.Context, wallet string) (*domain.Person, error) {
	var person domain.Person
	err := s.db.Collection(domain.CollectionPerson).
		FindOne(ctx, bson.D{{Key: "wallet", Value: wallet}}).
		Decode(&person)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &person, nil
}

func (s *MongoStore) InsertPerson(ctx context.Context, person *domain.Person) (string, error) {
	res, err := s.db.Collection(domain.CollectionPerson).InsertOne(ctx, person)
	if err != nil {
		return "", fmt.Errorf("failed to insert person: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	person.ID = id
	return id.Hex(), nil
}

func (s *MongoStore) UpdatePerson(ctx context.Context, wallet string, fields map[string]interface{}) (int64, error) {
	set := bson.D{}
	for k, v := range fields {
		set = append(set, bson.E{Key: k, Value: v})
	}

	res, err := s.db.Collection(domain.CollectionPerson).UpdateOne(ctx,
		bson.D{{Key: "wallet", Value: wallet}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update person: %w", err)
	}
	return res.MatchedCount, nil
}

func (s *MongoStore) AggregatePersons(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Person, error) {
	var persons []domain.Person
	if err := s.aggregate(ctx, domain.CollectionPerson, pipeline, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (s *MongoStore) AddFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (bool, error) {
	res, err := s.db.Collection(domain.CollectionPerson).UpdateOne(ctx,
		bson.D{{Key: "wallet", Value: wallet}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "favourites", Value: ref}}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add favourite: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) RemoveFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (bool, error) {
	res, err := s.db.Collection(domain.CollectionPerson).UpdateOne(ctx,
		bson.D{{Key: "wallet", Value: wallet}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "favourites", Value: ref}}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove favourite: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) GetNFT(ctx context.Context, ref domain.NFTRef) (*domain.NFT, error) {
	var nft domain.NFT
	err := s.db.Collection(domain.CollectionNFT).
		FindOne(ctx, bson.D{{Key: "collection", Value: ref.Contract}, {Key: "index", Value: ref.Index}}).
		Decode(&nft)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return &nft, nil
}

func (s *MongoStore) AggregateNFTs(ctx context.Context, pipeline mongo.Pipeline) ([]domain.NFT, error) {
	var nfts []domain.NFT
	if err := s.aggregate(ctx, domain.CollectionNFT, pipeline, &nfts); err != nil {
		return nil, err
	}
	return nfts, nil
}

func (s *MongoStore) ListCollectionNFTs(ctx context.Context, contract string) ([]domain.NFT, error) {
	cursor, err := s.db.Collection(domain.CollectionNFT).Find(ctx,
		bson.D{{Key: "collection", Value: contract}},
		options.Find().SetSort(bson.D{{Key: "index", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list nfts: %w", err)
	}

	var nfts []domain.NFT
	if err := cursor.All(ctx, &nfts); err != nil {
		return nil, fmt.Errorf("failed to decode nfts: %w", err)
	}
	return nfts, nil
}

func (s *MongoStore) CountNFTsByOwner(ctx context.Context, wallet string) (int64, error) {
	count, err := s.db.Collection(domain.CollectionNFT).
		CountDocuments(ctx, bson.D{{Key: "owner", Value: wallet}})
	if err != nil {
		return 0, fmt.Errorf("failed to count nfts: %w", err)
	}
	return count, nil
}

func (s *MongoStore) DistinctNFTOwners(ctx context.Context, contract string) ([]string, error) {
	values, err := s.db.Collection(domain.CollectionNFT).
		Distinct(ctx, "owner", bson.D{{Key: "collection", Value: contract}})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if owner, ok := v.(string); ok {
			owners = append(owners, owner)
		}
	}
	return owners, nil
}

func (s *MongoStore) AggregateActivities(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Activity, error) {
	var activities []domain.Activity
	if err := s.aggregate(ctx, domain.CollectionActivity, pipeline, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *MongoStore) ListCollectionActivities(ctx context.Context, contract string, types []domain.ActivityType) ([]domain.Activity, error) {
	filter := bson.D{{Key: "collection", Value: contract}}
	if len(types) > 0 {
		filter = append(filter, bson.E{Key: "type", Value: bson.D{{Key: "$in", Value: types}}})
	}

	cursor, err := s.db.Collection(domain.CollectionActivity).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	var activities []domain.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}

func (s *MongoStore) GetCollectionByContract(ctx context.Context, contract string) (*domain.NFTCollection, error) {
	return s.getCollection(ctx, bson.D{{Key: "contract", Value: contract}})
}

func (s *MongoStore) GetCollectionByName(ctx context.Context, name string) (*domain.NFTCollection, error) {
	return s.getCollection(ctx, bson.D{{Key: "name", Value: name}})
}

func (s *MongoStore) getCollection(ctx context.Context, filter bson.D) (*domain.NFTCollection, error) {
	var collection domain.NFTCollection
	err := s.db.Collection(domain.CollectionNFTCollection).FindOne(ctx, filter).Decode(&collection)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &collection, nil
}

func (s *MongoStore) InsertCollection(ctx context.Context, collection *domain.NFTCollection) error {
	if _, err := s.db.Collection(domain.CollectionNFTCollection).InsertOne(ctx, collection); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

func (s *MongoStore) AggregateCollections(ctx context.Context, pipeline mongo.Pipeline) ([]domain.NFTCollection, error) {
	var collections []domain.NFTCollection
	if err := s.aggregate(ctx, domain.CollectionNFTCollection, pipeline, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (s *MongoStore) CountCollectionsByCreator(ctx context.Context, wallet string) (int64, error) {
	count, err := s.db.Collection(domain.CollectionNFTCollection).
		CountDocuments(ctx, bson.D{{Key: "creator", Value: wallet}})
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return count, nil
}

// aggregate runs a pipeline over a named collection and decodes all results.
func (s *MongoStore) aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := s.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", coll, err)
	}
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode %s results: %w", coll, err)
	}
	return nil
}

// IsDuplicateKey reports whether an error is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
