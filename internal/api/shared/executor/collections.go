package executor

import (
	"context"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-api/internal/api/shared/dto"
	apierrors "github.com/feral-file/marketplace-api/internal/api/shared/errors"
	"github.com/feral-file/marketplace-api/internal/domain"
	"github.com/feral-file/marketplace-api/internal/logger"
	"github.com/feral-file/marketplace-api/internal/stats"
	"github.com/feral-file/marketplace-api/internal/store"
)

func (e *executor) ListCollections(ctx context.Context, filter *store.Filter) (*dto.CollectionListResponse, error) {
	collections, err := e.store.AggregateCollections(ctx, filter.Pipeline())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collections: %v", err))
	}
	return e.enrichCollections(ctx, collections), nil
}

func (e *executor) TopCollections(ctx context.Context, filter *store.Filter) (*dto.CollectionListResponse, error) {
	resp, err := e.ListCollections(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(resp.Collections, func(i, j int) bool {
		return resp.Collections[i].Stats.TotalVolume > resp.Collections[j].Stats.TotalVolume
	})
	if len(resp.Collections) > domain.TopCollectionsLimit {
		resp.Collections = resp.Collections[:domain.TopCollectionsLimit]
	}
	resp.Total = len(resp.Collections)

	return resp, nil
}

func (e *executor) GetCollectionOwners(ctx context.Context, contract string) (*dto.CollectionOwnersResponse, error) {
	contract = domain.NormalizeAddress(contract)

	collection, err := e.requireCollection(ctx, contract)
	if err != nil {
		return nil, err
	}

	wallets, err := e.store.DistinctNFTOwners(ctx, collection.Contract)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collection owners: %v", err))
	}

	owners := make([]dto.OwnerResponse, len(wallets))
	group := e.pool.NewGroup()
	for i, wallet := range wallets {
		group.Submit(func() {
			person, err := e.store.GetPerson(ctx, wallet)
			if err != nil {
				logger.WarnCtx(ctx, "Failed to resolve collection owner",
					zap.String("wallet", wallet), zap.Error(err))
			}
			if person == nil {
				// Holder without a profile; report the wallet alone.
				owners[i] = dto.OwnerResponse{Wallet: wallet}
				return
			}
			owners[i] = *e.enrichOwner(ctx, person)
		})
	}
	_ = group.Wait()

	return &dto.CollectionOwnersResponse{
		Contract: collection.Contract,
		Owners:   owners,
		Total:    len(owners),
	}, nil
}

func (e *executor) GetCollectionItems(ctx context.Context, contract string, filter *store.Filter) (*dto.CollectionItemsResponse, error) {
	contract = domain.NormalizeAddress(contract)

	collection, err := e.requireCollection(ctx, contract)
	if err != nil {
		return nil, err
	}

	pipeline := filter.Pipeline(store.Match("collection", collection.Contract))

	nfts, err := e.store.AggregateNFTs(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collection items: %v", err))
	}

	return &dto.CollectionItemsResponse{
		Collection: *e.enrichCollection(ctx, collection),
		NFTs:       nfts,
		Total:      len(nfts),
	}, nil
}

func (e *executor) GetCollectionActivity(ctx context.Context, contract string, filter *store.Filter) (*dto.ActivityListResponse, error) {
	return e.collectionActivity(ctx, contract, filter, nil)
}

func (e *executor) GetCollectionHistory(ctx context.Context, contract string, filter *store.Filter) (*dto.ActivityListResponse, error) {
	return e.collectionActivity(ctx, contract, filter, []domain.ActivityType{
		domain.ActivityTypeSold,
		domain.ActivityTypeTransfer,
	})
}

func (e *executor) CreateCollection(ctx context.Context, params CreateCollectionParams) (*dto.CollectionResponse, error) {
	creator := domain.NormalizeAddress(params.Creator)

	switch {
	case params.Name == "":
		return nil, apierrors.NewValidationError("name is required")
	case len(params.Logo) == 0:
		return nil, apierrors.NewValidationError("logo is required")
	case params.Category == "":
		return nil, apierrors.NewValidationError("category is required")
	case !domain.IsValidBlockchain(params.Blockchain):
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported blockchain %q", params.Blockchain))
	case creator == "":
		return nil, apierrors.NewValidationError("creator is required")
	}

	person, err := e.store.GetPerson(ctx, creator)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get creator: %v", err))
	}
	if person == nil {
		return nil, apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", creator))
	}

	existing, err := e.store.GetCollectionByName(ctx, params.Name)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to check collection name: %v", err))
	}
	if existing != nil {
		return nil, apierrors.NewConflictError("Collection name already taken", params.Name)
	}

	address, err := e.registry.ContractAddress(ctx, params.Blockchain, params.Name)
	if err != nil {
		return nil, apierrors.NewServiceError("Failed to assign contract address", err.Error())
	}

	now := e.now()
	collection := &domain.NFTCollection{
		ID:             ulid.MustNewDefault(now).String(),
		Contract:       address,
		Name:           params.Name,
		Description:    params.Description,
		Category:       params.Category,
		Blockchain:     params.Blockchain,
		SiteURL:        params.SiteURL,
		DiscordURL:     params.DiscordURL,
		InstagramURL:   params.InstagramURL,
		MediumURL:      params.MediumURL,
		TelegramURL:    params.TelegramURL,
		CreatorEarning: params.CreatorEarning,
		IsExplicit:     params.IsExplicit,
		Properties:     params.Properties,
		Creator:        creator,
		CreatedAt:      now,
	}

	logoURL, err := e.storage.UploadImage(ctx, params.Logo, fmt.Sprintf("collections/%s/logo", collection.ID))
	if err != nil {
		return nil, apierrors.NewServiceError("Failed to upload logo", err.Error())
	}
	collection.LogoURL = logoURL

	// Secondary images are optional and their upload failures only drop
	// the image rather than abort the creation.
	if len(params.Featured) > 0 {
		url, err := e.storage.UploadImage(ctx, params.Featured, fmt.Sprintf("collections/%s/featured", collection.ID))
		if err != nil {
			logger.WarnCtx(ctx, "Failed to upload featured image",
				zap.String("collection", collection.ID), zap.Error(err))
		} else {
			collection.FeaturedURL = url
		}
	}
	if len(params.Banner) > 0 {
		url, err := e.storage.UploadImage(ctx, params.Banner, fmt.Sprintf("collections/%s/banner", collection.ID))
		if err != nil {
			logger.WarnCtx(ctx, "Failed to upload banner image",
				zap.String("collection", collection.ID), zap.Error(err))
		} else {
			collection.BannerURL = url
		}
	}

	if err := e.store.InsertCollection(ctx, collection); err != nil {
		if store.IsDuplicateKey(err) {
			return nil, apierrors.NewConflictError("Collection name already taken", params.Name)
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create collection: %v", err))
	}

	logger.InfoCtx(ctx, "Collection created",
		zap.String("id", collection.ID),
		zap.String("name", collection.Name),
		zap.String("contract", collection.Contract),
		zap.String("creator", creator),
	)

	return e.enrichCollection(ctx, collection), nil
}

func (e *executor) GetCollectionDetail(ctx context.Context, contract string) (*dto.CollectionDetailResponse, error) {
	contract = domain.NormalizeAddress(contract)

	collection, err := e.requireCollection(ctx, contract)
	if err != nil {
		return nil, err
	}

	nfts, err := e.store.ListCollectionNFTs(ctx, collection.Contract)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collection nfts: %v", err))
	}

	activities, err := e.store.ListCollectionActivities(ctx, collection.Contract, nil)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collection activities: %v", err))
	}

	resp := &dto.CollectionDetailResponse{
		CollectionResponse: *e.enrichCollection(ctx, collection),
		NFTs:               nfts,
		Activities:         e.enrichActivities(ctx, activities, false).Activities,
	}
	return resp, nil
}

// collectionActivity lists a collection's activities newest first, optionally
// restricted to the given types, with the filter's pagination applied.
func (e *executor) collectionActivity(ctx context.Context, contract string, filter *store.Filter, types []domain.ActivityType) (*dto.ActivityListResponse, error) {
	contract = domain.NormalizeAddress(contract)

	collection, err := e.requireCollection(ctx, contract)
	if err != nil {
		return nil, err
	}

	scope := []bson.D{store.Match("collection", collection.Contract)}
	if len(types) > 0 {
		scope = append(scope, store.Match("type", map[string]interface{}{"$in": types}))
	}
	pipeline := filter.Pipeline(scope...)

	activities, err := e.store.AggregateActivities(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collection activity: %v", err))
	}

	return e.enrichActivities(ctx, activities, false), nil
}

// requireCollection resolves a contract to its collection record or a
// not-found error.
func (e *executor) requireCollection(ctx context.Context, contract string) (*domain.NFTCollection, error) {
	collection, err := e.store.GetCollectionByContract(ctx, contract)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get collection: %v", err))
	}
	if collection == nil {
		return nil, apierrors.NewNotFoundError("Collection not found", fmt.Sprintf("contract %s", contract))
	}
	return collection, nil
}

// enrichCollections enriches a batch of collections through the bounded
// worker pool, preserving the input order.
func (e *executor) enrichCollections(ctx context.Context, collections []domain.NFTCollection) *dto.CollectionListResponse {
	rows := make([]dto.CollectionResponse, len(collections))

	group := e.pool.NewGroup()
	for i := range collections {
		group.Submit(func() {
			rows[i] = *e.enrichCollection(ctx, &collections[i])
		})
	}
	_ = group.Wait()

	return &dto.CollectionListResponse{Collections: rows, Total: len(rows)}
}

// enrichCollection attaches derived stats and the creator profile to a
// collection. Each part degrades independently: a failed lookup leaves its
// zero value on the row and logs a warning rather than failing the caller.
func (e *executor) enrichCollection(ctx context.Context, collection *domain.NFTCollection) *dto.CollectionResponse {
	row := dto.MapCollectionToDTO(collection)

	nfts, err := e.store.ListCollectionNFTs(ctx, collection.Contract)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to list collection nfts",
			zap.String("contract", collection.Contract), zap.Error(err))
	} else {
		summary := stats.Summarize(nfts)
		row.Stats.Items = int64(len(nfts))
		row.Stats.TotalVolume = summary.TotalVolume
		row.Stats.FloorPrice = summary.FloorPrice
	}

	owners, err := e.store.DistinctNFTOwners(ctx, collection.Contract)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to count collection owners",
			zap.String("contract", collection.Contract), zap.Error(err))
	} else {
		row.Stats.Owners = int64(len(owners))
	}

	activities, err := e.store.ListCollectionActivities(ctx, collection.Contract, []domain.ActivityType{domain.ActivityTypeSold})
	if err != nil {
		logger.WarnCtx(ctx, "Failed to list collection sales",
			zap.String("contract", collection.Contract), zap.Error(err))
	} else {
		row.Stats.TradeVolume24h, row.Stats.Change24h = stats.TradeDelta(activities, e.now())
	}

	if collection.Creator != "" {
		person, err := e.store.GetPerson(ctx, collection.Creator)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to resolve collection creator",
				zap.String("wallet", collection.Creator), zap.Error(err))
		} else if person != nil {
			row.Creator = dto.MapOwnerToDTO(person, 0, 0)
		}
	}

	return row
}
