package dto

import (
	"time"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// OwnerResponse represents an owner profile with live counts attached
type OwnerResponse struct {
	ID              string          `json:"id"`
	Wallet          string          `json:"wallet"`
	Username        string          `json:"username"`
	Bio             string          `json:"bio"`
	Social          string          `json:"social"`
	PhotoURL        string          `json:"photo_url"`
	Favourites      []domain.NFTRef `json:"favourites,omitempty"`
	NFTCount        int64           `json:"nft_count"`
	CollectionCount int64           `json:"collection_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OwnerListResponse represents an enriched owner listing
type OwnerListResponse struct {
	Owners []OwnerResponse `json:"owners"`
	Total  int             `json:"total"`
}

// CreateOwnerResponse confirms an owner creation with the generated id
type CreateOwnerResponse struct {
	ID     string `json:"id"`
	Wallet string `json:"wallet"`
}

// FavouriteResponse reports the outcome of a favourite toggle
type FavouriteResponse struct {
	Wallet  string        `json:"wallet"`
	NFT     domain.NFTRef `json:"nft"`
	Changed bool          `json:"changed"`
}

// NFTListResponse represents an NFT listing
type NFTListResponse struct {
	NFTs  []domain.NFT `json:"nfts"`
	Total int          `json:"total"`
}

// MapOwnerToDTO converts a person record plus its live counts to a DTO.
func MapOwnerToDTO(person *domain.Person, nftCount, collectionCount int64) *OwnerResponse {
	return &OwnerResponse{
		ID:              person.ID.Hex(),
		Wallet:          person.Wallet,
		Username:        person.Username,
		Bio:             person.Bio,
		Social:          person.Social,
		PhotoURL:        person.PhotoURL,
		Favourites:      person.Favourites,
		NFTCount:        nftCount,
		CollectionCount: collectionCount,
		CreatedAt:       person.CreatedAt,
	}
}
