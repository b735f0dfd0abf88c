package dto

import (
	"time"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// CollectionStats holds the derived metrics attached to a collection
type CollectionStats struct {
	Items          int64   `json:"items"`
	Owners         int64   `json:"owners"`
	TotalVolume    float64 `json:"total_volume"`
	FloorPrice     float64 `json:"floor_price"`
	TradeVolume24h float64 `json:"trade_volume_24h"`
	Change24h      float64 `json:"change_24h"`
}

// CollectionResponse represents a collection enriched with stats and the
// creator's profile
type CollectionResponse struct {
	ID             string            `json:"id"`
	Contract       string            `json:"contract"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	LogoURL        string            `json:"logo_url"`
	FeaturedURL    string            `json:"featured_url"`
	BannerURL      string            `json:"banner_url"`
	Category       string            `json:"category"`
	Blockchain     domain.Blockchain `json:"blockchain"`
	SiteURL        string            `json:"site_url"`
	DiscordURL     string            `json:"discord_url"`
	InstagramURL   string            `json:"instagram_url"`
	MediumURL      string            `json:"medium_url"`
	TelegramURL    string            `json:"telegram_url"`
	CreatorEarning float64           `json:"creator_earning"`
	IsVerified     bool              `json:"is_verified"`
	IsExplicit     bool              `json:"is_explicit"`
	Properties     map[string]string `json:"properties,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`

	Stats   CollectionStats `json:"stats"`
	Creator *OwnerResponse  `json:"creator,omitempty"`
}

// CollectionListResponse represents an enriched collection listing
type CollectionListResponse struct {
	Collections []CollectionResponse `json:"collections"`
	Total       int                  `json:"total"`
}

// CollectionOwnersResponse lists the distinct owner profiles of a collection
type CollectionOwnersResponse struct {
	Contract string          `json:"contract"`
	Owners   []OwnerResponse `json:"owners"`
	Total    int             `json:"total"`
}

// CollectionItemsResponse attaches a collection's NFT list to its record
type CollectionItemsResponse struct {
	Collection CollectionResponse `json:"collection"`
	NFTs       []domain.NFT       `json:"nfts"`
	Total      int                `json:"total"`
}

// CollectionDetailResponse is the full collection view: stats, creator,
// activity list and NFT list
type CollectionDetailResponse struct {
	CollectionResponse
	NFTs       []domain.NFT       `json:"nfts"`
	Activities []ActivityResponse `json:"activities"`
}

// MapCollectionToDTO converts a collection record to a DTO; stats and
// creator are attached by the caller.
func MapCollectionToDTO(collection *domain.NFTCollection) *CollectionResponse {
	return &CollectionResponse{
		ID:             collection.ID,
		Contract:       collection.Contract,
		Name:           collection.Name,
		Description:    collection.Description,
		LogoURL:        collection.LogoURL,
		FeaturedURL:    collection.FeaturedURL,
		BannerURL:      collection.BannerURL,
		Category:       collection.Category,
		Blockchain:     collection.Blockchain,
		SiteURL:        collection.SiteURL,
		DiscordURL:     collection.DiscordURL,
		InstagramURL:   collection.InstagramURL,
		MediumURL:      collection.MediumURL,
		TelegramURL:    collection.TelegramURL,
		CreatorEarning: collection.CreatorEarning,
		IsVerified:     collection.IsVerified,
		IsExplicit:     collection.IsExplicit,
		Properties:     collection.Properties,
		CreatedAt:      collection.CreatedAt,
	}
}
