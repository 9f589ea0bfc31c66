package gmcontact

import (
	"fmt"
	"strings"
	"time"

	"gopalmetals/internal/models/gmmail"
	"gopalmetals/internal/models/gmsettings"

	"github.com/asaskevich/govalidator"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Submission est une demande reçue via le formulaire de contact
type Submission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName spécifie le nom de la table pour Submission
func (Submission) TableName() string {
	return "contact_submissions"
}

const (
	maxNameLength    = 100
	maxSubjectLength = 200
	maxMessageLength = 5000
)

// Validate vérifie les champs obligatoires avant enregistrement
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Company = strings.TrimSpace(s.Company)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)

	if s.Name == "" {
		return fmt.Errorf("le nom est requis")
	}
	if len(s.Name) > maxNameLength {
		return fmt.Errorf("le nom est trop long")
	}
	if !govalidator.IsEmail(s.Email) {
		return fmt.Errorf("adresse email invalide")
	}
	if len(s.Subject) > maxSubjectLength {
		return fmt.Errorf("le sujet est trop long")
	}
	if s.Message == "" {
		return fmt.Errorf("le message est requis")
	}
	if len(s.Message) > maxMessageLength {
		return fmt.Errorf("le message est trop long")
	}
	return nil
}

// Service enregistre les demandes et notifie les destinataires configurés
type Service struct {
	db       *gorm.DB
	mailer   *gmmail.Sender
	settings *gmsettings.Store
	siteName string
}

func NewService(db *gorm.DB, mailer *gmmail.Sender, settings *gmsettings.Store, siteName string) *Service {
	return &Service{
		db:       db,
		mailer:   mailer,
		settings: settings,
		siteName: siteName,
	}
}

// Submit valide, enregistre puis notifie. L'enregistrement est bloquant,
// l'envoi du mail part en arrière plan: une panne SMTP ne doit pas faire
// échouer la soumission déjà persistée.
func (s *Service) Submit(submission *Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}

	if err := s.db.Create(submission).Error; err != nil {
		log.Error().Err(err).Msg("Erreur enregistrement demande de contact")
		return fmt.Errorf("impossible d'enregistrer la demande")
	}

	go s.notify(*submission)

	return nil
}

func (s *Service) notify(submission Submission) {
	recipients := s.settings.Get().ContactInfo.ContactFormEmails
	if len(recipients) == 0 {
		log.Warn().Msg("Aucun destinataire configuré pour le formulaire de contact")
		return
	}

	data := gmmail.ContactNotifyData{
		SiteName:   s.siteName,
		Name:       submission.Name,
		Email:      submission.Email,
		Phone:      submission.Phone,
		Company:    submission.Company,
		Subject:    submission.Subject,
		Message:    submission.Message,
		IPAddress:  submission.IPAddress,
		ReceivedAt: submission.CreatedAt.Format("2006-01-02 15:04"),
	}

	if err := s.mailer.SendContactNotify(recipients, data); err != nil {
		log.Error().Err(err).Msg("Erreur envoi notification contact")
	}
}

// List retourne les demandes les plus récentes pour le back-office
func (s *Service) List(limit int) ([]Submission, error) {
	query := s.db.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var submissions []Submission
	err := query.Find(&submissions).Error
	return submissions, err
}

func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&Submission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count retourne le nombre total de demandes pour le dashboard
func (s *Service) Count() int64 {
	var count int64
	s.db.Model(&Submission{}).Count(&count)
	return count
}
