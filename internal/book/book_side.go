package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// BookSide is one side (bids or asks) of an order book: a price-ordered
// tree of PriceLevels. Iteration order is always best-price-first,
// which is what lets the FOK pre-check and the matching primitive treat
// Items()/Best() as already being in priority order.
type BookSide struct {
	tree *btree.BTreeG[*PriceLevel]
}

func newBids() *BookSide {
	return &BookSide{
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.GreaterThan(b.Price) // highest price sorts first
		}),
	}
}

func newAsks() *BookSide {
	return &BookSide{
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price) // lowest price sorts first
		}),
	}
}

// Best returns the top-of-book level, or ok=false if the side is empty.
func (s *BookSide) Best() (*PriceLevel, bool) {
	return s.tree.Min()
}

// levelAt returns the existing level at price, if any.
func (s *BookSide) levelAt(price decimal.Decimal) (*PriceLevel, bool) {
	return s.tree.Get(&PriceLevel{Price: price})
}

// getOrCreate returns the level at price, creating and inserting an
// empty one if it doesn't exist yet.
func (s *BookSide) getOrCreate(price decimal.Decimal) *PriceLevel {
	if level, ok := s.levelAt(price); ok {
		return level
	}
	level := newPriceLevel(price)
	s.tree.Set(level)
	return level
}

// Delete removes a level outright (used once its queue has emptied).
func (s *BookSide) Delete(level *PriceLevel) {
	s.tree.Delete(level)
}

func (s *BookSide) Len() int {
	return s.tree.Len()
}

// Items returns every level on this side, best price first.
func (s *BookSide) Items() []*PriceLevel {
	items := make([]*PriceLevel, 0, s.tree.Len())
	s.tree.Scan(func(level *PriceLevel) bool {
		items = append(items, level)
		return true
	})
	return items
}

// top returns the best n levels, best price first.
func (s *BookSide) top(n int) []*PriceLevel {
	items := make([]*PriceLevel, 0, n)
	s.tree.Scan(func(level *PriceLevel) bool {
		items = append(items, level)
		return len(items) < n
	})
	return items
}
