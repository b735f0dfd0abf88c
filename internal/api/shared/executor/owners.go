package executor

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/feral-file/marketplace-api/internal/api/shared/dto"
	apierrors "github.com/feral-file/marketplace-api/internal/api/shared/errors"
	"github.com/feral-file/marketplace-api/internal/domain"
	"github.com/feral-file/marketplace-api/internal/logger"
	"github.com/feral-file/marketplace-api/internal/store"
)

// updatableOwnerFields is the whitelist of profile fields UpdateOwner merges.
var updatableOwnerFields = map[string]bool{
	"username": true,
	"bio":      true,
	"social":   true,
	"photoUrl": true,
}

func (e *executor) ListOwners(ctx context.Context, filter *store.Filter) (*dto.OwnerListResponse, error) {
	persons, err := e.store.AggregatePersons(ctx, filter.Pipeline())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list owners: %v", err))
	}

	owners := make([]dto.OwnerResponse, len(persons))
	g, gctx := errgroup.WithContext(ctx)
	for i := range persons {
		g.Go(func() error {
			owners[i] = *e.enrichOwner(gctx, &persons[i])
			return nil
		})
	}
	_ = g.Wait()

	return &dto.OwnerListResponse{Owners: owners, Total: len(owners)}, nil
}

func (e *executor) GetOrCreateOwner(ctx context.Context, wallet string) (*dto.OwnerResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	person, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
	}
	if person != nil {
		return e.enrichOwner(ctx, person), nil
	}

	person = &domain.Person{Wallet: wallet, CreatedAt: e.now()}
	if _, err := e.store.InsertPerson(ctx, person); err != nil {
		if store.IsDuplicateKey(err) {
			// Lost a create race; the record now exists, reread it.
			person, err = e.store.GetPerson(ctx, wallet)
			if err != nil || person == nil {
				return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
			}
			return e.enrichOwner(ctx, person), nil
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create owner: %v", err))
	}

	// Fresh profile, counts are necessarily zero.
	return dto.MapOwnerToDTO(person, 0, 0), nil
}

func (e *executor) CreateOwner(ctx context.Context, params CreateOwnerParams) (*dto.CreateOwnerResponse, error) {
	wallet := domain.NormalizeAddress(params.Wallet)
	if wallet == "" {
		return nil, apierrors.NewValidationError("wallet is required")
	}

	existing, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to check owner: %v", err))
	}
	if existing != nil {
		return nil, apierrors.NewConflictError("Owner already exists", fmt.Sprintf("wallet %s", wallet))
	}

	person := &domain.Person{
		Wallet:    wallet,
		Username:  params.Username,
		Bio:       params.Bio,
		Social:    params.Social,
		PhotoURL:  params.PhotoURL,
		CreatedAt: e.now(),
	}

	// The check above does not close the race window; a concurrent create
	// surfaces here as a duplicate-key error instead.
	id, err := e.store.InsertPerson(ctx, person)
	if err != nil {
		if store.IsDuplicateKey(err) {
			return nil, apierrors.NewConflictError("Owner already exists", fmt.Sprintf("wallet %s", wallet))
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create owner: %v", err))
	}

	return &dto.CreateOwnerResponse{ID: id, Wallet: wallet}, nil
}

func (e *executor) UpdateOwner(ctx context.Context, wallet string, fields map[string]interface{}) (*dto.OwnerResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	set := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if updatableOwnerFields[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil, apierrors.NewValidationError("no updatable fields provided")
	}

	matched, err := e.store.UpdatePerson(ctx, wallet, set)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update owner: %v", err))
	}
	if matched == 0 {
		return nil, apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", wallet))
	}

	return e.getOwner(ctx, wallet)
}

func (e *executor) UpdateOwnerPhoto(ctx context.Context, wallet string, imageBase64 string) (*dto.OwnerResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	person, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
	}
	if person == nil {
		return nil, apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", wallet))
	}

	key := fmt.Sprintf("owners/%s/%s", wallet, uuid.NewString())
	url, err := e.storage.UploadImageBase64(ctx, imageBase64, key)
	if err != nil {
		return nil, apierrors.NewServiceError("Failed to upload photo", err.Error())
	}

	if _, err := e.store.UpdatePerson(ctx, wallet, map[string]interface{}{"photoUrl": url}); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update owner photo: %v", err))
	}

	return e.getOwner(ctx, wallet)
}

func (e *executor) ListOwnerNFTs(ctx context.Context, wallet string, filter *store.Filter) (*dto.NFTListResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	pipeline := filter.Pipeline(store.Match("owner", wallet))

	nfts, err := e.store.AggregateNFTs(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list owner nfts: %v", err))
	}

	return &dto.NFTListResponse{NFTs: nfts, Total: len(nfts)}, nil
}

func (e *executor) ListOwnerActivity(ctx context.Context, wallet string, filter *store.Filter) (*dto.ActivityListResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	pipeline := filter.Pipeline(store.MatchAny(
		bson.D{{Key: "from", Value: wallet}},
		bson.D{{Key: "to", Value: wallet}},
	))

	activities, err := e.store.AggregateActivities(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list owner activity: %v", err))
	}

	return e.enrichActivities(ctx, activities, true), nil
}

func (e *executor) ListOwnerCollections(ctx context.Context, wallet string, filter *store.Filter) (*dto.CollectionListResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	pipeline := filter.Pipeline(store.Match("creator", wallet))

	collections, err := e.store.AggregateCollections(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list owner collections: %v", err))
	}

	// Zero rows is a valid empty listing, not an error.
	return e.enrichCollections(ctx, collections), nil
}

func (e *executor) ListOwnerOffers(ctx context.Context, wallet string, filter *store.Filter) (*dto.ActivityListResponse, error) {
	wallet = domain.NormalizeAddress(wallet)
	walletPattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(wallet) + "$", Options: "i"}

	pipeline := filter.Pipeline(
		store.Match("type", domain.ActivityTypeOffer),
		store.MatchAny(
			bson.D{{Key: "from", Value: walletPattern}},
			bson.D{{Key: "to", Value: walletPattern}},
		),
	)

	activities, err := e.store.AggregateActivities(ctx, pipeline)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list owner offers: %v", err))
	}

	return e.enrichActivities(ctx, activities, false), nil
}

func (e *executor) AddFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (*dto.FavouriteResponse, error) {
	wallet = domain.NormalizeAddress(wallet)
	if apiErr := e.validateFavourite(ctx, wallet, ref); apiErr != nil {
		return nil, apiErr
	}

	changed, err := e.store.AddFavourite(ctx, wallet, ref)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to add favourite: %v", err))
	}

	return &dto.FavouriteResponse{Wallet: wallet, NFT: ref, Changed: changed}, nil
}

func (e *executor) RemoveFavourite(ctx context.Context, wallet string, ref domain.NFTRef) (*dto.FavouriteResponse, error) {
	wallet = domain.NormalizeAddress(wallet)
	if apiErr := e.validateFavourite(ctx, wallet, ref); apiErr != nil {
		return nil, apiErr
	}

	changed, err := e.store.RemoveFavourite(ctx, wallet, ref)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to remove favourite: %v", err))
	}

	return &dto.FavouriteResponse{Wallet: wallet, NFT: ref, Changed: changed}, nil
}

func (e *executor) ListFavourites(ctx context.Context, wallet string) (*dto.NFTListResponse, error) {
	wallet = domain.NormalizeAddress(wallet)

	person, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
	}
	if person == nil {
		return nil, apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", wallet))
	}

	nfts := make([]domain.NFT, 0, len(person.Favourites))
	for _, ref := range person.Favourites {
		nft, err := e.store.GetNFT(ctx, ref)
		if err != nil || nft == nil {
			// Dangling favourite refs are skipped, not fatal.
			logger.WarnCtx(ctx, "Skipping unresolvable favourite",
				zap.String("wallet", wallet),
				zap.String("nft", ref.String()),
				zap.Error(err),
			)
			continue
		}
		nfts = append(nfts, *nft)
	}

	return &dto.NFTListResponse{NFTs: nfts, Total: len(nfts)}, nil
}

// validateFavourite checks that the collection, the NFT and the owner all
// exist before a favourite toggle touches the person record.
func (e *executor) validateFavourite(ctx context.Context, wallet string, ref domain.NFTRef) error {
	collection, err := e.store.GetCollectionByContract(ctx, ref.Contract)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to get collection: %v", err))
	}
	if collection == nil {
		return apierrors.NewNotFoundError("Collection not found", fmt.Sprintf("contract %s", ref.Contract))
	}

	nft, err := e.store.GetNFT(ctx, ref)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to get nft: %v", err))
	}
	if nft == nil {
		return apierrors.NewNotFoundError("NFT not found", ref.String())
	}

	person, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
	}
	if person == nil {
		return apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", wallet))
	}

	return nil
}

// getOwner returns the enriched owner or a not-found error.
func (e *executor) getOwner(ctx context.Context, wallet string) (*dto.OwnerResponse, error) {
	person, err := e.store.GetPerson(ctx, wallet)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get owner: %v", err))
	}
	if person == nil {
		return nil, apierrors.NewNotFoundError("Owner not found", fmt.Sprintf("wallet %s", wallet))
	}
	return e.enrichOwner(ctx, person), nil
}

// enrichOwner attaches live NFT and collection counts to a person. Count
// lookups run in parallel; a failed count degrades to zero for that row
// instead of failing the caller.
func (e *executor) enrichOwner(ctx context.Context, person *domain.Person) *dto.OwnerResponse {
	var nftCount, collectionCount int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := e.store.CountNFTsByOwner(gctx, person.Wallet)
		if err != nil {
			logger.WarnCtx(gctx, "Failed to count owner nfts",
				zap.String("wallet", person.Wallet), zap.Error(err))
			return nil
		}
		nftCount = n
		return nil
	})
	g.Go(func() error {
		n, err := e.store.CountCollectionsByCreator(gctx, person.Wallet)
		if err != nil {
			logger.WarnCtx(gctx, "Failed to count owner collections",
				zap.String("wallet", person.Wallet), zap.Error(err))
			return nil
		}
		collectionCount = n
		return nil
	})
	_ = g.Wait()

	return dto.MapOwnerToDTO(person, nftCount, collectionCount)
}

// enrichActivities attaches the referenced NFT's display fields (and
// optionally the collection record) to each activity row. Rows whose
// references do not resolve keep empty enrichment fields.
func (e *executor) enrichActivities(ctx context.Context, activities []domain.Activity, withCollection bool) *dto.ActivityListResponse {
	rows := make([]dto.ActivityResponse, len(activities))

	g, gctx := errgroup.WithContext(ctx)
	for i := range activities {
		g.Go(func() error {
			activity := &activities[i]

			nft, err := e.store.GetNFT(gctx, activity.Ref())
			if err != nil {
				logger.WarnCtx(gctx, "Failed to resolve activity nft",
					zap.String("nft", activity.Ref().String()), zap.Error(err))
			}

			var collection *domain.NFTCollection
			if withCollection {
				collection, err = e.store.GetCollectionByContract(gctx, activity.Contract)
				if err != nil {
					logger.WarnCtx(gctx, "Failed to resolve activity collection",
						zap.String("contract", activity.Contract), zap.Error(err))
				}
			}

			rows[i] = *dto.MapActivityToDTO(activity, nft, collection)
			return nil
		})
	}
	_ = g.Wait()

	return &dto.ActivityListResponse{Activities: rows, Total: len(rows)}
}
