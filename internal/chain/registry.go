// Package chain abstracts contract-address assignment for newly created
// collections. The production deployment pipeline lives elsewhere; this
// package only defines the collaborator boundary and a static
// configuration-backed implementation.
package chain

import (
	"context"
	"fmt"

	"github.com/feral-file/marketplace-api/internal/domain"
)

// Registry assigns a contract address for a new collection on a blockchain.
type Registry interface {
	ContractAddress(ctx context.Context, blockchain domain.Blockchain, collectionID string) (string, error)
}

// StaticRegistry resolves contract addresses from a fixed per-blockchain
// table loaded from configuration. It stands in for a real deployment
// service; swap the implementation when one exists.
type StaticRegistry struct {
	contracts map[domain.Blockchain]string
}

// NewStaticRegistry creates a registry from a blockchain -> address table.
func NewStaticRegistry(contracts map[domain.Blockchain]string) *StaticRegistry {
	return &StaticRegistry{contracts: contracts}
}

var _ Registry = (*StaticRegistry)(nil)

func (r *StaticRegistry) ContractAddress(ctx context.Context, blockchain domain.Blockchain, collectionID string) (string, error) {
	addr, ok := r.contracts[blockchain]
	if !ok {
		return "", fmt.Errorf("no contract configured for blockchain %q", blockchain)
	}
	return domain.NormalizeAddress(addr), nil
}
