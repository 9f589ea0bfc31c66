package handlers_analytics

import (
	"net/http"
	"strconv"

	"gopalmetals/internal/models/gmanalytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *gmanalytics.Service
}

func NewAnalyticsHandler(service *gmanalytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// parseDays lit le paramètre days de la query, 30 par défaut
func parseDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	return days
}

// GetSummary retourne les statistiques agrégées de la fenêtre demandée.
// Toujours 200: le service retourne un résumé à zéro en cas de panne.
func (ah *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary := ah.service.GetSummary(parseDays(c))
	c.JSON(http.StatusOK, summary)
}

// GetVisits retourne les visites détaillées de la fenêtre demandée
func (ah *AnalyticsHandler) GetVisits(c *gin.Context) {
	visits := ah.service.GetVisits(parseDays(c))
	c.JSON(http.StatusOK, gin.H{
		"visits": visits,
		"count":  len(visits),
	})
}
