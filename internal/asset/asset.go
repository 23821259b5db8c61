// Package asset models native chain currency amounts for display.
package asset

// Asset describes a native currency of an EVM network.
type Asset struct {
	symbol   string
	name     string
	decimals uint8
}

// ETH is the native currency of Ethereum and its development networks.
var ETH = NewAsset("ETH", "Ether", 18)

// NewAsset creates a new Asset.
func NewAsset(symbol, name string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{symbol: symbol, name: name, decimals: decimals}
}

// Symbol returns the ticker symbol.
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places of the smallest unit.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}
