package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidBlockchain(t *testing.T) {
	tests := []struct {
		name       string
		blockchain Blockchain
		expected   bool
	}{
		{
			name:       "valid ethereum",
			blockchain: BlockchainEthereum,
			expected:   true,
		},
		{
			name:       "valid polygon",
			blockchain: BlockchainPolygon,
			expected:   true,
		},
		{
			name:       "valid tezos",
			blockchain: BlockchainTezos,
			expected:   true,
		},
		{
			name:       "invalid empty blockchain",
			blockchain: Blockchain(""),
			expected:   false,
		},
		{
			name:       "invalid unknown blockchain",
			blockchain: Blockchain("solana"),
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidBlockchain(tt.blockchain))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mixed case with whitespace",
			input:    "  0xAbCdEf ",
			expected: "0xabcdef",
		},
		{
			name:     "already normalized",
			input:    "0xabc",
			expected: "0xabc",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAddress(tt.input))
		})
	}
}

func TestNFTRefString(t *testing.T) {
	ref := NFTRef{Contract: "0xdead", Index: 42}
	assert.Equal(t, "0xdead:42", ref.String())
}

func TestActivityRef(t *testing.T) {
	a := Activity{Type: ActivityTypeSold, Contract: "0xdead", NFTIndex: 7}
	assert.Equal(t, NFTRef{Contract: "0xdead", Index: 7}, a.Ref())
}
