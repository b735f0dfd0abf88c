package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// Store defines the document-store operations the API needs. Lookup methods
// return (nil, nil) when no document matches; only driver failures surface
// as errors.
type Store interface {
	// GetPerson retrieves a person by wallet address
	GetPerson(ctx context.Context, wallet string) (*domain.Person, error)
	// InsertPerson inserts a new person record and returns its generated id
	InsertPerson(ctx context.Context, person *domain.Person) (string, error)
	// UpdatePerson merges the given fields into the person matched by wallet,
	// returning the number of matched documents
	UpdatePerson(ctx context.Context, wallet string, fields map[string]interface{}) (int64, error)
	// AggregatePersons runs an aggregation pipeline over the Person collection
	AggregatePersons(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Person, error)
	// AddFavourite adds an NFT reference to a person's favourites,
	// reporting whether the set changed
	AddFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (bool, error)
	// RemoveFavourite removes an NFT reference from a person's favourites,
	// reporting whether the set changed
	RemoveFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (bool, error)

	// GetNFT retrieves an NFT by its collection contract and index
	GetNFT(ctx context.Context, ref domain.NFTRef) (*domain.NFT, error)
	// AggregateNFTs runs an aggregation pipeline over the NFT collection
	AggregateNFTs(ctx context.Context, pipeline mongo.Pipeline) ([]domain.NFT, error)
	// ListCollectionNFTs lists all NFTs belonging to a contract
	ListCollectionNFTs(ctx context.Context, contract string) ([]domain.NFT, error)
	// CountNFTsByOwner counts the NFTs currently owned by a wallet
	CountNFTsByOwner(ctx context.Context, wallet string) (int64, error)
	// DistinctNFTOwners returns the distinct set of current NFT owners in a contract
	DistinctNFTOwners(ctx context.Context, contract string) ([]string, error)

	// AggregateActivities runs an aggregation pipeline over the Activity collection
	AggregateActivities(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Activity, error)
	// ListCollectionActivities lists a contract's activities, newest first,
	// optionally restricted to the given types
	ListCollectionActivities(ctx context.Context, contract string, types []domain.ActivityType) ([]domain.Activity, error)

	// GetCollectionByContract retrieves a collection by its contract address
	GetCollectionByContract(ctx context.Context, contract string) (*domain.NFTCollection, error)
	// GetCollectionByName retrieves a collection by its unique name
	GetCollectionByName(ctx context.Context, name string) (*domain.NFTCollection, error)
	// InsertCollection inserts a new collection record
	InsertCollection(ctx context.Context, collection *domain.NFTCollection) error
	// AggregateCollections runs an aggregation pipeline over the NFTCollection collection
	AggregateCollections(ctx context.Context, pipeline mongo.Pipeline) ([]domain.NFTCollection, error)
	// CountCollectionsByCreator counts the collections created by a wallet
	CountCollectionsByCreator(ctx context.Context, wallet string) (int64, error)
}
