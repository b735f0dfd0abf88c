package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/marketplace-api/internal/api/shared/executor"
	"github.com/feral-file/marketplace-api/internal/domain"
	"github.com/feral-file/marketplace-api/internal/storage"
	"github.com/feral-file/marketplace-api/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ListOwners lists owner profiles
	// GET /api/v1/owners?filter=...&sort=...&limit=...&offset=...
	ListOwners(c *gin.Context)

	// GetOwner returns the owner for a wallet, creating a blank profile
	// on first lookup
	// GET /api/v1/owners/:wallet
	GetOwner(c *gin.Context)

	// CreateOwner creates a new owner profile
	// POST /api/v1/owners
	CreateOwner(c *gin.Context)

	// UpdateOwner merges profile fields into an owner
	// PATCH /api/v1/owners/:wallet
	UpdateOwner(c *gin.Context)

	// UpdateOwnerPhoto uploads a new profile photo
	// PUT /api/v1/owners/:wallet/photo
	UpdateOwnerPhoto(c *gin.Context)

	// ListOwnerNFTs lists the NFTs owned by a wallet
	// GET /api/v1/owners/:wallet/nfts
	ListOwnerNFTs(c *gin.Context)

	// ListOwnerActivity lists activities involving a wallet
	// GET /api/v1/owners/:wallet/activity
	ListOwnerActivity(c *gin.Context)

	// ListOwnerCollections lists the collections created by a wallet
	// GET /api/v1/owners/:wallet/collections
	ListOwnerCollections(c *gin.Context)

	// ListOwnerOffers lists offers made by or to a wallet
	// GET /api/v1/owners/:wallet/offers
	ListOwnerOffers(c *gin.Context)

	// ListFavourites lists an owner's favourite NFTs
	// GET /api/v1/owners/:wallet/favourites
	ListFavourites(c *gin.Context)

	// AddFavourite adds an NFT to an owner's favourites
	// POST /api/v1/owners/:wallet/favourites
	AddFavourite(c *gin.Context)

	// RemoveFavourite removes an NFT from an owner's favourites
	// DELETE /api/v1/owners/:wallet/favourites
	RemoveFavourite(c *gin.Context)

	// ListCollections lists collections with stats
	// GET /api/v1/collections
	ListCollections(c *gin.Context)

	// TopCollections returns the highest-volume collections
	// GET /api/v1/collections/top
	TopCollections(c *gin.Context)

	// CreateCollection creates a new collection
	// POST /api/v1/collections
	CreateCollection(c *gin.Context)

	// GetCollection returns the full collection view
	// GET /api/v1/collections/:contract
	GetCollection(c *gin.Context)

	// GetCollectionOwners lists the distinct holders of a collection
	// GET /api/v1/collections/:contract/owners
	GetCollectionOwners(c *gin.Context)

	// GetCollectionItems lists a collection's NFTs
	// GET /api/v1/collections/:contract/items
	GetCollectionItems(c *gin.Context)

	// GetCollectionActivity lists a collection's activities
	// GET /api/v1/collections/:contract/activity
	GetCollectionActivity(c *gin.Context)

	// GetCollectionHistory lists a collection's sales and transfers
	// GET /api/v1/collections/:contract/history
	GetCollectionHistory(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

// CreateOwnerRequest is the body of POST /owners.
type CreateOwnerRequest struct {
	Wallet   string `json:"wallet" binding:"required"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Social   string `json:"social"`
	PhotoURL string `json:"photo_url"`
}

// UpdateOwnerRequest is the body of PATCH /owners/:wallet. Only the fields
// present in the request are merged.
type UpdateOwnerRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Social   *string `json:"social"`
	PhotoURL *string `json:"photo_url"`
}

// UpdateOwnerPhotoRequest is the body of PUT /owners/:wallet/photo.
type UpdateOwnerPhotoRequest struct {
	Image string `json:"image" binding:"required"`
}

// FavouriteRequest identifies the NFT of a favourite toggle.
type FavouriteRequest struct {
	Collection string `json:"collection" binding:"required"`
	Index      int64  `json:"index"`
}

// CreateCollectionRequest is the body of POST /collections. Images are
// base64 payloads, with or without a data-URI prefix.
type CreateCollectionRequest struct {
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description"`
	Category       string            `json:"category" binding:"required"`
	Blockchain     string            `json:"blockchain" binding:"required"`
	SiteURL        string            `json:"site_url"`
	DiscordURL     string            `json:"discord_url"`
	InstagramURL   string            `json:"instagram_url"`
	MediumURL      string            `json:"medium_url"`
	TelegramURL    string            `json:"telegram_url"`
	CreatorEarning float64           `json:"creator_earning"`
	IsExplicit     bool              `json:"is_explicit"`
	Properties     map[string]string `json:"properties"`
	Creator        string            `json:"creator" binding:"required"`
	Logo           string            `json:"logo" binding:"required"`
	Featured       string            `json:"featured"`
	Banner         string            `json:"banner"`
}

func (h *handler) ListOwners(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListOwners(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetOwner(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetOrCreateOwner(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) CreateOwner(c *gin.Context) {
	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resp, err := h.executor.CreateOwner(c.Request.Context(), executor.CreateOwnerParams{
		Wallet:   req.Wallet,
		Username: req.Username,
		Bio:      req.Bio,
		Social:   req.Social,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) UpdateOwner(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}

	var req UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Social != nil {
		fields["social"] = *req.Social
	}
	if req.PhotoURL != nil {
		fields["photoUrl"] = *req.PhotoURL
	}

	resp, err := h.executor.UpdateOwner(c.Request.Context(), wallet, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) UpdateOwnerPhoto(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}

	var req UpdateOwnerPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resp, err := h.executor.UpdateOwnerPhoto(c.Request.Context(), wallet, req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListOwnerNFTs(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListOwnerNFTs(c.Request.Context(), wallet, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListOwnerActivity(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListOwnerActivity(c.Request.Context(), wallet, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListOwnerCollections(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListOwnerCollections(c.Request.Context(), wallet, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListOwnerOffers(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListOwnerOffers(c.Request.Context(), wallet, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListFavourites(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListFavourites(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) AddFavourite(c *gin.Context) {
	wallet, ref, ok := favouriteParams(c)
	if !ok {
		return
	}

	resp, err := h.executor.AddFavourite(c.Request.Context(), wallet, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) RemoveFavourite(c *gin.Context) {
	wallet, ref, ok := favouriteParams(c)
	if !ok {
		return
	}

	resp, err := h.executor.RemoveFavourite(c.Request.Context(), wallet, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListCollections(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.ListCollections(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) TopCollections(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.TopCollections(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	logo, err := storage.DecodeBase64Image(req.Logo)
	if err != nil {
		respondValidationError(c, fmt.Sprintf("invalid logo: %v", err))
		return
	}

	var featured, banner []byte
	if req.Featured != "" {
		if featured, err = storage.DecodeBase64Image(req.Featured); err != nil {
			respondValidationError(c, fmt.Sprintf("invalid featured image: %v", err))
			return
		}
	}
	if req.Banner != "" {
		if banner, err = storage.DecodeBase64Image(req.Banner); err != nil {
			respondValidationError(c, fmt.Sprintf("invalid banner image: %v", err))
			return
		}
	}

	resp, err := h.executor.CreateCollection(c.Request.Context(), executor.CreateCollectionParams{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Blockchain:     domain.Blockchain(req.Blockchain),
		SiteURL:        req.SiteURL,
		DiscordURL:     req.DiscordURL,
		InstagramURL:   req.InstagramURL,
		MediumURL:      req.MediumURL,
		TelegramURL:    req.TelegramURL,
		CreatorEarning: req.CreatorEarning,
		IsExplicit:     req.IsExplicit,
		Properties:     req.Properties,
		Creator:        req.Creator,
		Logo:           logo,
		Featured:       featured,
		Banner:         banner,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) GetCollection(c *gin.Context) {
	contract, ok := contractParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetCollectionDetail(c.Request.Context(), contract)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionOwners(c *gin.Context) {
	contract, ok := contractParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetCollectionOwners(c.Request.Context(), contract)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionItems(c *gin.Context) {
	contract, ok := contractParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetCollectionItems(c.Request.Context(), contract, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionActivity(c *gin.Context) {
	contract, ok := contractParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetCollectionActivity(c.Request.Context(), contract, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetCollectionHistory(c *gin.Context) {
	contract, ok := contractParam(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetCollectionHistory(c.Request.Context(), contract, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// walletParam extracts the :wallet path parameter, rejecting empty values.
func walletParam(c *gin.Context) (string, bool) {
	wallet := c.Param("wallet")
	if wallet == "" {
		respondBadRequest(c, "Wallet address is required")
		return "", false
	}
	return wallet, true
}

// contractParam extracts the :contract path parameter, rejecting empty values.
func contractParam(c *gin.Context) (string, bool) {
	contract := c.Param("contract")
	if contract == "" {
		respondBadRequest(c, "Contract address is required")
		return "", false
	}
	return contract, true
}

// listFilter parses the generic listing query into a store filter, writing
// the error response itself if the query is malformed.
func listFilter(c *gin.Context) (*store.Filter, bool) {
	params, err := ParseListQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return nil, false
	}
	filter, err := params.BuildFilter()
	if err != nil {
		respondValidationError(c, err.Error())
		return nil, false
	}
	return filter, true
}

// favouriteParams extracts the wallet path parameter and favourite body.
func favouriteParams(c *gin.Context) (string, domain.NFTRef, bool) {
	wallet, ok := walletParam(c)
	if !ok {
		return "", domain.NFTRef{}, false
	}

	var req FavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return "", domain.NFTRef{}, false
	}

	return wallet, domain.NFTRef{Contract: req.Collection, Index: req.Index}, true
}
