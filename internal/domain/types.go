package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blockchain represents the blockchain a collection is deployed on
type Blockchain string

const (
	BlockchainEthereum Blockchain = "ethereum"
	BlockchainPolygon  Blockchain = "polygon"
	BlockchainTezos    Blockchain = "tezos"
)

// IsValidBlockchain checks if a blockchain is supported
func IsValidBlockchain(b Blockchain) bool {
	return b == BlockchainEthereum ||
		b == BlockchainPolygon ||
		b == BlockchainTezos
}

// ActivityType represents the type of a marketplace activity event
type ActivityType string

const (
	ActivityTypeSold     ActivityType = "Sold"
	ActivityTypeTransfer ActivityType = "Transfer"
	ActivityTypeOffer    ActivityType = "Offer"
	ActivityTypeMinted   ActivityType = "Minted"
)

// Person represents an owner/creator profile keyed by wallet address.
// The wallet address is the foreign-key value used by NFT and Activity records.
type Person struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Wallet     string             `bson:"wallet" json:"wallet"`
	Username   string             `bson:"username" json:"username"`
	Bio        string             `bson:"bio" json:"bio"`
	Social     string             `bson:"social" json:"social"`
	PhotoURL   string             `bson:"photoUrl" json:"photo_url"`
	Favourites []NFTRef           `bson:"favourites,omitempty" json:"favourites,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}

// NFTRef identifies an NFT by its collection contract address and
// its index within that collection.
type NFTRef struct {
	Contract string `bson:"collection" json:"collection"`
	Index    int64  `bson:"index" json:"index"`
}

func (r NFTRef) String() string {
	return fmt.Sprintf("%s:%d", r.Contract, r.Index)
}

// NFTCollection represents a collection of NFTs sharing a contract address.
// The contract address is the foreign key used by NFT and Activity records;
// ID is the database-generated identifier.
type NFTCollection struct {
	ID             string            `bson:"_id" json:"id"`
	Contract       string            `bson:"contract" json:"contract"`
	Name           string            `bson:"name" json:"name"`
	Description    string            `bson:"description" json:"description"`
	LogoURL        string            `bson:"logoUrl" json:"logo_url"`
	FeaturedURL    string            `bson:"featuredUrl" json:"featured_url"`
	BannerURL      string            `bson:"bannerUrl" json:"banner_url"`
	Category       string            `bson:"category" json:"category"`
	Blockchain     Blockchain        `bson:"blockchain" json:"blockchain"`
	SiteURL        string            `bson:"siteUrl" json:"site_url"`
	DiscordURL     string            `bson:"discordUrl" json:"discord_url"`
	InstagramURL   string            `bson:"instagramUrl" json:"instagram_url"`
	MediumURL      string            `bson:"mediumUrl" json:"medium_url"`
	TelegramURL    string            `bson:"telegramUrl" json:"telegram_url"`
	CreatorEarning float64           `bson:"creatorEarning" json:"creator_earning"`
	IsVerified     bool              `bson:"isVerified" json:"is_verified"`
	IsExplicit     bool              `bson:"isExplicit" json:"is_explicit"`
	Properties     map[string]string `bson:"properties,omitempty" json:"properties,omitempty"`
	Creator        string            `bson:"creator" json:"creator"`
	CreatedAt      time.Time         `bson:"createdAt" json:"created_at"`
}

// NFT represents a single token. It belongs to exactly one collection
// (by contract address) and has exactly one current owner.
type NFT struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Contract string             `bson:"collection" json:"collection"`
	Index    int64              `bson:"index" json:"index"`
	Owner    string             `bson:"owner" json:"owner"`
	Creator  string             `bson:"creator" json:"creator"`
	Price    float64            `bson:"price" json:"price"`
	ArtURL   string             `bson:"artUrl" json:"art_url"`
	Name     string             `bson:"name" json:"name"`
}

// Ref returns the NFT's collection-scoped reference.
func (n *NFT) Ref() NFTRef {
	return NFTRef{Contract: n.Contract, Index: n.Index}
}

// Activity represents a marketplace event (sale, transfer, offer, mint).
// Date is a unix-epoch timestamp in seconds.
type Activity struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type     ActivityType       `bson:"type" json:"type"`
	From     string             `bson:"from" json:"from"`
	To       string             `bson:"to" json:"to"`
	Contract string             `bson:"collection" json:"collection"`
	NFTIndex int64              `bson:"nftIndex" json:"nft_index"`
	Price    float64            `bson:"price" json:"price"`
	Date     int64              `bson:"date" json:"date"`
}

// Ref returns the reference of the NFT this activity concerns.
func (a *Activity) Ref() NFTRef {
	return NFTRef{Contract: a.Contract, Index: a.NFTIndex}
}

// NormalizeAddress lowercases and trims a wallet or contract address.
// Addresses are compared case-insensitively throughout.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
