package handlers_sitemap

import (
	"net/http"

	"gopalmetals/internal/models/gmsitemap"

	"github.com/gin-gonic/gin"
)

type SitemapHandler struct {
	service *gmsitemap.Service
}

func NewSitemapHandler(service *gmsitemap.Service) *SitemapHandler {
	return &SitemapHandler{
		service: service,
	}
}

// Sitemap sert le sitemap XML, généré depuis le catalogue et mis en cache
func (sh *SitemapHandler) Sitemap(c *gin.Context) {
	output, err := sh.service.XML()
	if err != nil {
		c.XML(http.StatusInternalServerError, gin.H{"error": "Erreur génération sitemap"})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", output)
}

// Robots sert robots.txt
func (sh *SitemapHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, sh.service.RobotsTxt())
}
