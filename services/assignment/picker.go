package assignment

import (
	"math/rand"
	"sync"
	"time"

	"taskrewards-platform/services/product"
)

// Picker draws one product from a non-empty pool. The daily assigner uses
// a uniform random picker; tests inject a deterministic one.
type Picker interface {
	Pick(pool []product.Product) product.Product
}

type randomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPicker() Picker {
	return &randomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *randomPicker) Pick(pool []product.Product) product.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}
