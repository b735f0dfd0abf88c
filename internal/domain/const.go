package domain

const (
	// Document-store collection names
	CollectionPerson        = "Person"
	CollectionNFT           = "NFT"
	CollectionActivity      = "Activity"
	CollectionNFTCollection = "NFTCollection"

	// NoFloorPrice is the floor price reported for a collection with no NFTs.
	NoFloorPrice = float64(0)

	// TopCollectionsLimit caps the size of the top-collections listing.
	TopCollectionsLimit = 10
)
