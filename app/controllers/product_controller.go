package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/e2esuite/app/models"
	"github.com/shashiranjanraj/e2esuite/app/repositories"
	"github.com/shashiranjanraj/e2esuite/pkg/response"
)

const productNotFound = "Product not found"

type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController(products *repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// Index answers GET /api/products[?region=].
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products := c.products.All(r.URL.Query().Get("region"))
	response.Success(w, map[string]any{"products": products, "count": len(products)})
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w, productNotFound)
		return
	}
	product, ok := c.products.FindByID(id)
	if !ok {
		response.NotFound(w, productNotFound)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if !decode(w, r, &in) {
		return
	}
	response.Created(w, c.products.Create(in))
}
