package gmanalytics

import "time"

// VisitRecord représente une vue de page
type VisitRecord struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	IPAddress string    `gorm:"index;not null" json:"ipAddress"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	Browser   string    `json:"browser"`
	Device    string    `json:"device"`
	OS        string    `json:"os"`
	Path      string    `gorm:"index;not null" json:"path"`
	Referrer  string    `json:"referrer"`
	VisitedAt time.Time `gorm:"index" json:"visitedAt"`
}

// TableName spécifie le nom de la table pour VisitRecord
func (VisitRecord) TableName() string {
	return "visits"
}

// PageStat est une entrée du top des pages
type PageStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Summary représente les statistiques agrégées sur une fenêtre glissante
type Summary struct {
	TotalPageViews int64      `json:"totalPageViews"`
	UniqueVisitors int64      `json:"uniqueVisitors"`
	TopPages       []PageStat `json:"topPages"`
}
