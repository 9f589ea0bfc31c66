package handlers_catalog

import (
	"errors"
	"net/http"
	"strconv"

	"gopalmetals/internal/models/gmcatalog"
	"gopalmetals/internal/models/gmsitemap"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *gmcatalog.Service
	sitemap *gmsitemap.Service
}

func NewCatalogHandler(service *gmcatalog.Service, sitemap *gmsitemap.Service) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		sitemap: sitemap,
	}
}

// invalidateSitemap purge le cache sitemap après une écriture du catalogue
func (ch *CatalogHandler) invalidateSitemap() {
	if ch.sitemap != nil {
		ch.sitemap.Invalidate()
	}
}

// ============= API publique =============

// ListCategories retourne toutes les catégories
func (ch *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := ch.service.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catégories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListProducts retourne les produits, filtrables par catégorie et featured
func (ch *CatalogHandler) ListProducts(c *gin.Context) {
	filter := gmcatalog.ProductFilter{
		CategorySlug: c.Query("category"),
		FeaturedOnly: c.Query("featured") == "true",
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	products, err := ch.service.ListProducts(filter)
	if errors.Is(err, gmcatalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie inconnue"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct retourne une fiche produit par slug
func (ch *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := ch.service.GetProductBySlug(c.Param("slug"))
	if errors.Is(err, gmcatalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit inconnu"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produit"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// ============= API admin =============

func (ch *CatalogHandler) CreateCategory(c *gin.Context) {
	var category gmcatalog.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}

	if err := ch.service.CreateCategory(&category); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, gmcatalog.ErrSlugTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusCreated, category)
}

func (ch *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var updated gmcatalog.Category
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}

	category, err := ch.service.UpdateCategory(uint(id), &updated)
	switch {
	case errors.Is(err, gmcatalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie inconnue"})
		return
	case errors.Is(err, gmcatalog.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusOK, category)
}

func (ch *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ch.service.DeleteCategory(uint(id)); err != nil {
		if errors.Is(err, gmcatalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie inconnue"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}

func (ch *CatalogHandler) CreateProduct(c *gin.Context) {
	var product gmcatalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}

	if err := ch.service.CreateProduct(&product); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, gmcatalog.ErrSlugTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusCreated, product)
}

func (ch *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var updated gmcatalog.Product
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}

	product, err := ch.service.UpdateProduct(uint(id), &updated)
	switch {
	case errors.Is(err, gmcatalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit inconnu"})
		return
	case errors.Is(err, gmcatalog.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusOK, product)
}

func (ch *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ch.service.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, gmcatalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit inconnu"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	ch.invalidateSitemap()
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
