package gmmiddleware

import (
	"strings"

	"gopalmetals/internal/models/gmanalytics"

	"github.com/gin-gonic/gin"
)

// skippedPrefixes sont les chemins jamais comptés comme visites: assets,
// back-office et endpoints API
var skippedPrefixes = []string{
	"/static/",
	"/files/",
	"/admin",
	"/api/",
	"/sitemap.xml",
	"/robots.txt",
	"/favicon",
}

// Tracking enregistre chaque page publique vue dans le service analytics.
// L'écriture part en goroutine: la requête n'attend jamais le stockage et
// un échec d'enregistrement ne l'affecte pas.
func Tracking(service *gmanalytics.Service, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		referrer := c.Request.Referer()
		userAgent := c.Request.UserAgent()
		ipAddress := getClientIP(c)

		// Enregistrer de manière asynchrone pour ne pas bloquer la requête
		go service.RecordVisit(path, ipAddress, userAgent, referrer)

		c.Next()
	}
}

func shouldSkip(path string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// getClientIP récupère l'IP réelle du client
func getClientIP(c *gin.Context) string {
	// Vérifier les headers de proxy
	ip := c.GetHeader("X-Real-IP")
	if ip == "" {
		ip = c.GetHeader("X-Forwarded-For")
		if ip != "" {
			// Prendre la première IP si plusieurs
			ips := strings.Split(ip, ",")
			ip = strings.TrimSpace(ips[0])
		}
	}
	if ip == "" {
		ip = c.ClientIP()
	}
	return ip
}
