package handlers_contact

import (
	"net/http"
	"strconv"

	"gopalmetals/internal/models/gmcaptchas"
	"gopalmetals/internal/models/gmcontact"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ContactHandler struct {
	service    *gmcontact.Service
	captcha    *gmcaptchas.Captchas
	production bool
}

func NewContactHandler(service *gmcontact.Service, captcha *gmcaptchas.Captchas, production bool) *ContactHandler {
	return &ContactHandler{
		service:    service,
		captcha:    captcha,
		production: production,
	}
}

// submitRequest est le payload du formulaire de contact
type submitRequest struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	Company       string `json:"company" form:"company"`
	Subject       string `json:"subject" form:"subject"`
	Message       string `json:"message" form:"message"`
	CaptchaID     string `json:"captcha_id" form:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer" form:"captcha_answer"`
	// Honeypot: champ invisible, toujours vide pour un humain
	Website string `json:"website" form:"website"`
}

// Submit traite une soumission du formulaire de contact
func (ch *ContactHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire invalide"})
		return
	}

	// Les bots remplissent le honeypot, on répond OK sans rien enregistrer
	if req.Website != "" {
		log.Warn().Str("ip", c.ClientIP()).Msg("Honeypot déclenché sur le formulaire de contact")
		c.JSON(http.StatusOK, gin.H{"message": "Message envoyé"})
		return
	}

	if err := ch.captcha.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission := &gmcontact.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
	}

	if err := ch.service.Submit(submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message envoyé"})
}

// Captcha génère un nouveau CAPTCHA pour le formulaire
func (ch *ContactHandler) Captcha(c *gin.Context) {
	ch.captcha.CaptchaHandler(c, ch.production)
}

// ============= API admin =============

// List retourne les demandes reçues, les plus récentes en premier
func (ch *ContactHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	submissions, err := ch.service.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération demandes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

func (ch *ContactHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ch.service.Delete(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande inconnue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demande supprimée"})
}
