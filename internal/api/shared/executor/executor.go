package executor

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/feral-file/marketplace-api/internal/api/shared/dto"
	"github.com/feral-file/marketplace-api/internal/chain"
	"github.com/feral-file/marketplace-api/internal/domain"
	"github.com/feral-file/marketplace-api/internal/storage"
	"github.com/feral-file/marketplace-api/internal/store"
)

// enrichmentWorkers bounds the parallel per-collection stats lookups.
const enrichmentWorkers = 8

// CreateOwnerParams holds the fields for a new owner profile.
type CreateOwnerParams struct {
	Wallet   string
	Username string
	Bio      string
	Social   string
	PhotoURL string
}

// CreateCollectionParams holds the fields for a new collection.
// Logo is required; Featured and Banner are optional.
type CreateCollectionParams struct {
	Name           string
	Description    string
	Category       string
	Blockchain     domain.Blockchain
	SiteURL        string
	DiscordURL     string
	InstagramURL   string
	MediumURL      string
	TelegramURL    string
	CreatorEarning float64
	IsExplicit     bool
	Properties     map[string]string
	Creator        string
	Logo           []byte
	Featured       []byte
	Banner         []byte
}

// Executor implements the marketplace operations behind the REST handlers.
// Every method returns either a DTO or an *errors.APIError; nothing panics
// past this boundary.
type Executor interface {
	// ListOwners lists owner profiles matching the filter, each enriched
	// with live NFT and collection counts
	ListOwners(ctx context.Context, filter *store.Filter) (*dto.OwnerListResponse, error)
	// GetOrCreateOwner returns the owner for a wallet, creating a blank
	// profile on first lookup
	GetOrCreateOwner(ctx context.Context, wallet string) (*dto.OwnerResponse, error)
	// CreateOwner creates a new owner profile; the wallet must be unused
	CreateOwner(ctx context.Context, params CreateOwnerParams) (*dto.CreateOwnerResponse, error)
	// UpdateOwner merges profile fields into an existing owner
	UpdateOwner(ctx context.Context, wallet string, fields map[string]interface{}) (*dto.OwnerResponse, error)
	// UpdateOwnerPhoto uploads a base64 profile image and stores its URL
	UpdateOwnerPhoto(ctx context.Context, wallet string, imageBase64 string) (*dto.OwnerResponse, error)
	// ListOwnerNFTs lists the NFTs currently owned by a wallet
	ListOwnerNFTs(ctx context.Context, wallet string, filter *store.Filter) (*dto.NFTListResponse, error)
	// ListOwnerActivity lists activities involving a wallet on either side,
	// enriched with the referenced NFT and collection
	ListOwnerActivity(ctx context.Context, wallet string, filter *store.Filter) (*dto.ActivityListResponse, error)
	// ListOwnerCollections lists the collections created by a wallet,
	// enriched with stats and trade deltas
	ListOwnerCollections(ctx context.Context, wallet string, filter *store.Filter) (*dto.CollectionListResponse, error)
	// ListOwnerOffers lists offers made by or to a wallet
	ListOwnerOffers(ctx context.Context, wallet string, filter *store.Filter) (*dto.ActivityListResponse, error)
	// AddFavourite adds an NFT to an owner's favourites
	AddFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (*dto.FavouriteResponse, error)
	// RemoveFavourite removes an NFT from an owner's favourites
	RemoveFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (*dto.FavouriteResponse, error)
	// ListFavourites resolves an owner's favourite NFTs
	ListFavourites(ctx context.Context, wallet string) (*dto.NFTListResponse, error)

	// ListCollections lists collections matching the filter, each enriched
	// with stats, trade deltas and the creator profile
	ListCollections(ctx context.Context, filter *store.Filter) (*dto.CollectionListResponse, error)
	// TopCollections returns the ten highest-volume collections
	TopCollections(ctx context.Context, filter *store.Filter) (*dto.CollectionListResponse, error)
	// GetCollectionOwners returns the distinct owner profiles of a collection
	GetCollectionOwners(ctx context.Context, contract string) (*dto.CollectionOwnersResponse, error)
	// GetCollectionItems returns a collection with its NFT list
	GetCollectionItems(ctx context.Context, contract string, filter *store.Filter) (*dto.CollectionItemsResponse, error)
	// GetCollectionActivity lists a collection's activities
	GetCollectionActivity(ctx context.Context, contract string, filter *store.Filter) (*dto.ActivityListResponse, error)
	// GetCollectionHistory lists a collection's sales and transfers
	GetCollectionHistory(ctx context.Context, contract string, filter *store.Filter) (*dto.ActivityListResponse, error)
	// CreateCollection validates and creates a new collection, uploading
	// its images and assigning a contract address
	CreateCollection(ctx context.Context, params CreateCollectionParams) (*dto.CollectionResponse, error)
	// GetCollectionDetail returns the full collection view
	GetCollectionDetail(ctx context.Context, contract string) (*dto.CollectionDetailResponse, error)
}

type executor struct {
	store    store.Store
	storage  storage.Storage
	registry chain.Registry
	pool     pond.Pool
	now      func() time.Time
}

// NewExecutor creates the executor with its collaborators injected.
func NewExecutor(st store.Store, objStorage storage.Storage, registry chain.Registry) Executor {
	return &executor{
		store:    st,
		storage:  objStorage,
		registry: registry,
		pool:     pond.NewPool(enrichmentWorkers),
		now:      time.Now,
	}
}
