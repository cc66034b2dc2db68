package wish

// Pool holds the wishes that have not been handed out yet.
// It is not safe for concurrent use; callers serialize access.
type Pool struct {
	items []Wish
}

// NewPool returns a Pool preloaded with a copy of the supplied wishes.
func NewPool(items []Wish) *Pool {
	return &Pool{items: append([]Wish(nil), items...)}
}

// Len reports how many wishes remain.
func (p *Pool) Len() int {
	return len(p.items)
}

// Take removes and returns the wish at index i, keeping the order of the rest.
func (p *Pool) Take(i int) Wish {
	item := p.items[i]
	p.items = append(p.items[:i], p.items[i+1:]...)
	return item
}

// Reserve removes the first wish equal to w.
func (p *Pool) Reserve(w Wish) bool {
	for i, item := range p.items {
		if item == w {
			p.Take(i)
			return true
		}
	}
	return false
}
