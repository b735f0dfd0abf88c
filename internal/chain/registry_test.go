package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-api/internal/domain"
)

func TestStaticRegistryContractAddress(t *testing.T) {
	registry := NewStaticRegistry(map[domain.Blockchain]string{
		domain.BlockchainEthereum: "0xAbC0000000000000000000000000000000000001",
	})

	addr, err := registry.ContractAddress(context.Background(), domain.BlockchainEthereum, "col-1")
	require.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", addr)
}

func TestStaticRegistryUnknownBlockchain(t *testing.T) {
	registry := NewStaticRegistry(nil)

	_, err := registry.ContractAddress(context.Background(), domain.BlockchainTezos, "col-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contract configured")
}
