package types

// Balance is one asset balance reported by an exchange account.
// Balances are for display parity only and never gate simulated trades.
type Balance struct {
	Asset string `json:"asset" yaml:"asset"`
	// Free is the amount available for trading
	Free float64 `json:"free" yaml:"free"`
	// Locked is the amount held by open orders
	Locked float64 `json:"locked" yaml:"locked"`
}

// Total returns free plus locked.
func (b Balance) Total() float64 {
	return b.Free + b.Locked
}
