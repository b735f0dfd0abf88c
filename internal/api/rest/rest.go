package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Owner endpoints
		v1.GET("/owners", handler.ListOwners)
		v1.POST("/owners", handler.CreateOwner)
		v1.GET("/owners/:wallet", handler.GetOwner)
		v1.PATCH("/owners/:wallet", handler.UpdateOwner)
		v1.PUT("/owners/:wallet/photo", handler.UpdateOwnerPhoto)
		v1.GET("/owners/:wallet/nfts", handler.ListOwnerNFTs)
		v1.GET("/owners/:wallet/activity", handler.ListOwnerActivity)
		v1.GET("/owners/:wallet/collections", handler.ListOwnerCollections)
		v1.GET("/owners/:wallet/offers", handler.ListOwnerOffers)
		v1.GET("/owners/:wallet/favourites", handler.ListFavourites)
		v1.POST("/owners/:wallet/favourites", handler.AddFavourite)
		v1.DELETE("/owners/:wallet/favourites", handler.RemoveFavourite)

		// Collection endpoints
		v1.GET("/collections", handler.ListCollections)
		v1.POST("/collections", handler.CreateCollection)
		v1.GET("/collections/top", handler.TopCollections)
		v1.GET("/collections/:contract", handler.GetCollection)
		v1.GET("/collections/:contract/owners", handler.GetCollectionOwners)
		v1.GET("/collections/:contract/items", handler.GetCollectionItems)
		v1.GET("/collections/:contract/activity", handler.GetCollectionActivity)
		v1.GET("/collections/:contract/history", handler.GetCollectionHistory)
	}
}
