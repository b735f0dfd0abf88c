package dto

import (
	"github.com/feral-file/marketplace-api/internal/domain"
)

// ActivityResponse represents an activity row enriched with the referenced
// NFT's display fields and, where requested, the full collection record.
type ActivityResponse struct {
	ID         string                `json:"id"`
	Type       domain.ActivityType   `json:"type"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Contract   string                `json:"collection"`
	NFTIndex   int64                 `json:"nft_index"`
	Price      float64               `json:"price"`
	Date       int64                 `json:"date"`
	NFTName    string                `json:"nft_name,omitempty"`
	NFTArtURL  string                `json:"nft_art_url,omitempty"`
	Collection *domain.NFTCollection `json:"collection_detail,omitempty"`
}

// ActivityListResponse represents an enriched activity listing
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int                `json:"total"`
}

// MapActivityToDTO converts an activity to a DTO, attaching the referenced
// NFT's display fields when the lookup resolved. A nil nft leaves the
// enrichment fields empty rather than failing the row.
func MapActivityToDTO(activity *domain.Activity, nft *domain.NFT, collection *domain.NFTCollection) *ActivityResponse {
	resp := &ActivityResponse{
		ID:         activity.ID.Hex(),
		Type:       activity.Type,
		From:       activity.From,
		To:         activity.To,
		Contract:   activity.Contract,
		NFTIndex:   activity.NFTIndex,
		Price:      activity.Price,
		Date:       activity.Date,
		Collection: collection,
	}
	if nft != nil {
		resp.NFTName = nft.Name
		resp.NFTArtURL = nft.ArtURL
	}
	return resp
}
