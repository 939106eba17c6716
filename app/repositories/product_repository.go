package repositories

import (
	"slices"
	"sync"

	"github.com/shashiranjanraj/e2esuite/app/models"
	"github.com/shashiranjanraj/e2esuite/pkg/metrics"
)

func seedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Laptop", Price: 999, Currency: "USD", Region: "us"},
		{ID: 2, Name: "Mouse", Price: 25, Currency: "USD", Region: "us"},
		{ID: 3, Name: "Laptop", Price: 899, Currency: "EUR", Region: "eu"},
		{ID: 4, Name: "Mouse", Price: 22, Currency: "EUR", Region: "eu"},
		{ID: 5, Name: "Laptop", Price: 110000, Currency: "JPY", Region: "asia"},
		{ID: 6, Name: "Mouse", Price: 2800, Currency: "JPY", Region: "asia"},
	}
}

// ProductRepository is the product catalogue.
type ProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewProductRepository() *ProductRepository {
	r := &ProductRepository{}
	r.Reset()
	return r
}

// Reset restores the seed catalogue.
func (r *ProductRepository) Reset() {
	products := seedProducts()

	r.mu.Lock()
	r.products = products
	r.mu.Unlock()
	metrics.StoreRecords.WithLabelValues("products").Set(float64(len(products)))
}

// All returns products, filtered by region when region is non-empty.
func (r *ProductRepository) All(region string) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if region == "" || p.Region == region {
			out = append(out, p)
		}
	}
	return out
}

// FindByID looks a product up by id.
func (r *ProductRepository) FindByID(id int) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return models.Product{}, false
	}
	return r.products[i], true
}

// Create appends p with id = size + 1. Any id in p is ignored.
func (r *ProductRepository) Create(p models.Product) models.Product {
	r.mu.Lock()
	p.ID = len(r.products) + 1
	r.products = append(r.products, p)
	n := len(r.products)
	r.mu.Unlock()

	metrics.StoreRecords.WithLabelValues("products").Set(float64(n))
	return p
}
