package gmsettings

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsID est l'identifiant fixe de l'unique ligne de configuration
const settingsID = 1

// Store lit et écrit le document de configuration du site.
// Contrat volontairement asymétrique: les lectures n'échouent jamais
// (fallback sur les défauts), les écritures remontent leurs erreurs car
// une sauvegarde perdue silencieusement serait pire qu'une erreur affichée.
type Store struct {
	db       *gorm.DB
	defaults WebsiteSettings
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		defaults: DefaultSettings(),
	}
}

// Get retourne le document stocké fusionné par dessus les défauts.
// Sans ligne existante, la ligne est créée avec les défauts (synthèse
// paresseuse). Sur erreur de stockage ou de parsing on retourne les défauts
// sans rien persister: l'affichage des pages ne dépend jamais des settings.
func (s *Store) Get() WebsiteSettings {
	var record Record
	err := s.db.First(&record, settingsID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if createErr := s.persist(s.defaults); createErr != nil {
			log.Error().Err(createErr).Msg("Erreur création settings par défaut")
		}
		return s.defaults
	}
	if err != nil {
		log.Error().Err(err).Msg("Erreur lecture settings, utilisation des défauts")
		return s.defaults
	}

	var stored WebsiteSettings
	if err := json.Unmarshal(record.Data, &stored); err != nil {
		log.Error().Err(err).Msg("Settings illisibles, utilisation des défauts")
		return s.defaults
	}

	return Merge(stored, s.defaults)
}

// Save remplace le document entier (upsert sur l'ID fixe, pas de patch
// partiel, dernier écrivain gagnant). L'erreur est remontée à l'appelant.
func (s *Store) Save(doc WebsiteSettings) error {
	return s.persist(doc)
}

func (s *Store) persist(doc WebsiteSettings) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	record := Record{
		ID:   settingsID,
		Data: data,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
}

// Defaults expose le document par défaut compilé
func (s *Store) Defaults() WebsiteSettings {
	return s.defaults
}
