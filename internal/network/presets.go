package network

import (
	"strings"

	"github.com/Klingon-tech/hdgen/internal/wallet"
)

func chainID(id uint64) *uint64 { return &id }

var presets = []Spec{
	{Name: "Ethereum", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/eth", ChainID: chainID(1), PathTemplate: EVMPathTemplate},
	{Name: "BNB Smart Chain", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/bsc", ChainID: chainID(56), PathTemplate: EVMPathTemplate},
	{Name: "Polygon", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/polygon", ChainID: chainID(137), PathTemplate: EVMPathTemplate},
	{Name: "Arbitrum One", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/arbitrum", ChainID: chainID(42161), PathTemplate: EVMPathTemplate},
	{Name: "Optimism", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/optimism", ChainID: chainID(10), PathTemplate: EVMPathTemplate},
	{Name: "Sepolia Testnet", Kind: wallet.ChainEVM, RPCURL: "https://rpc.ankr.com/eth_sepolia", ChainID: chainID(11155111), PathTemplate: EVMPathTemplate},
	{Name: "Solana", Kind: wallet.ChainSolana, RPCURL: "https://api.mainnet-beta.solana.com", PathTemplate: SolanaPathTemplate},
	{Name: "Solana Devnet", Kind: wallet.ChainSolana, RPCURL: "https://api.devnet.solana.com", PathTemplate: SolanaPathTemplate},
}

// Presets returns a copy of the built-in networks in display order.
func Presets() []Spec {
	out := make([]Spec, len(presets))
	for i, p := range presets {
		out[i] = p.clone()
	}
	return out
}

// Preset looks up a built-in network by name, ignoring case.
func Preset(name string) (Spec, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p.clone(), true
		}
	}
	return Spec{}, false
}

// IsPreset reports whether name belongs to a built-in network.
func IsPreset(name string) bool {
	_, ok := Preset(name)
	return ok
}

func (s Spec) clone() Spec {
	if s.ChainID != nil {
		s.ChainID = chainID(*s.ChainID)
	}
	return s
}
