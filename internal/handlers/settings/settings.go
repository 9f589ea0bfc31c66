package handlers_settings

import (
	"net/http"

	"gopalmetals/internal/models/gmsettings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SettingsHandler struct {
	store *gmsettings.Store
}

func NewSettingsHandler(store *gmsettings.Store) *SettingsHandler {
	return &SettingsHandler{
		store: store,
	}
}

// Get retourne le document de configuration fusionné avec les défauts.
// Toujours 200: le store retourne les défauts en cas de panne de lecture.
func (sh *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, sh.store.Get())
}

// Save remplace le document entier. Les adresses de notification ne doivent
// jamais finir vides, sinon le formulaire de contact n'alerterait plus
// personne.
func (sh *SettingsHandler) Save(c *gin.Context) {
	var doc gmsettings.WebsiteSettings
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}

	if len(doc.ContactInfo.ContactFormEmails) == 0 {
		doc.ContactInfo.ContactFormEmails = sh.store.Defaults().ContactInfo.ContactFormEmails
	}

	if err := sh.store.Save(doc); err != nil {
		log.Error().Err(err).Msg("Erreur sauvegarde settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde configuration"})
		return
	}

	c.JSON(http.StatusOK, sh.store.Get())
}
