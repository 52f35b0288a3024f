package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	productsvc "eshop-api/internal/service/product"
)

func (h handlers) listProducts(c *gin.Context) {
	in := productsvc.ListInput{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("q"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "pageSize", 0),
	}

	result, err := h.deps.Products.List(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h handlers) latestProducts(c *gin.Context) {
	items, err := h.deps.Products.Latest(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

func (h handlers) featuredProducts(c *gin.Context) {
	items, err := h.deps.Products.Featured(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

func (h handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Products.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

func (h handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h handlers) getProductBySlug(c *gin.Context) {
	p, err := h.deps.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h handlers) createProduct(c *gin.Context) {
	var req productsvc.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	p, err := h.deps.Products.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, p)
}

func (h handlers) updateProduct(c *gin.Context) {
	var req productsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	p, err := h.deps.Products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h handlers) deleteProduct(c *gin.Context) {
	if err := h.deps.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "product deleted")
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
