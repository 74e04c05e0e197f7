package ledger

import "sync"

// Commodity is a unit of value such as "$", "EUR" or "AAPL". Commodities are
// interned by a CommodityPool, so two commodities with the same symbol taken
// from the same pool are the same pointer. Equality checks compare symbols,
// which keeps commodities from different pools interchangeable.
type Commodity struct {
	symbol string
}

// Symbol returns the commodity symbol.
func (c *Commodity) Symbol() string {
	if c == nil {
		return ""
	}
	return c.symbol
}

// String implements fmt.Stringer.
func (c *Commodity) String() string {
	return c.Symbol()
}

// sameCommodity reports whether a and b denote the same unit.
func sameCommodity(a, b *Commodity) bool {
	return a.Symbol() == b.Symbol()
}

// CommodityPool interns commodities by symbol.
type CommodityPool struct {
	mu          sync.Mutex
	commodities map[string]*Commodity
}

// NewCommodityPool creates an empty pool.
func NewCommodityPool() *CommodityPool {
	return &CommodityPool{commodities: make(map[string]*Commodity, 8)}
}

// FindOrCreate returns the commodity for symbol, creating it on first use.
func (p *CommodityPool) FindOrCreate(symbol string) *Commodity {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.commodities[symbol]; ok {
		return c
	}
	c := &Commodity{symbol: symbol}
	p.commodities[symbol] = c
	return c
}

// Find returns the commodity for symbol, or nil if it was never created.
func (p *CommodityPool) Find(symbol string) *Commodity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commodities[symbol]
}

// Len returns the number of interned commodities.
func (p *CommodityPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.commodities)
}
