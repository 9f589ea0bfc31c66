package gmsettings

import (
	"time"

	"gorm.io/datatypes"
)

// WebsiteSettings est le document de configuration du site, stocké en JSON
// dans une unique ligne de la table settings
type WebsiteSettings struct {
	ContactInfo ContactInfo `json:"contactInfo"`
	AboutInfo   AboutInfo   `json:"aboutInfo"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Logo        ImageRef    `json:"logo"`
	HeroImage   ImageRef    `json:"heroImage"`
}

type ContactInfo struct {
	CompanyName       string   `json:"companyName"`
	Address           Address  `json:"address"`
	Phone             Phone    `json:"phone"`
	Email             string   `json:"email"`
	ContactFormEmails []string `json:"contactFormEmails"`
	Hours             string   `json:"hours"`
	GoogleMapsURL     string   `json:"googleMapsUrl"`
}

type Address struct {
	HeadOffice      string `json:"headOffice"`
	CorporateOffice string `json:"corporateOffice"`
}

type Phone struct {
	Bangalore string `json:"bangalore"`
	Hyderabad string `json:"hyderabad"`
}

type AboutInfo struct {
	CompanyDescription string   `json:"companyDescription"`
	CompanyImage       string   `json:"companyImage"`
	Mission            string   `json:"mission"`
	Vision             string   `json:"vision"`
	Values             []string `json:"values"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
}

type ImageRef struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Record est la ligne unique (ID fixe 1) qui porte le document sérialisé
type Record struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Data      datatypes.JSON `gorm:"type:json" json:"data"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName spécifie le nom de la table pour Record
func (Record) TableName() string {
	return "settings"
}

// DefaultSettings retourne le document par défaut compilé dans le binaire.
// Chaque lecture fusionne le document stocké par dessus ces valeurs.
func DefaultSettings() WebsiteSettings {
	return WebsiteSettings{
		ContactInfo: ContactInfo{
			CompanyName: "Gopal Metals",
			Address: Address{
				HeadOffice:      "# 28, Example Road, Bengaluru – 560002",
				CorporateOffice: "# 320-2-22, Example Address, Mysore Road, Bengaluru- 560026",
			},
			Phone: Phone{
				Bangalore: "+91 9035000749",
				Hyderabad: "+91 9393031722",
			},
			Email:             "info@gopalmetals.com",
			ContactFormEmails: []string{"info@gopalmetals.com"},
			Hours:             "Mon to Sat 9:30AM to 6:30PM",
			GoogleMapsURL:     "https://www.google.com/maps/embed?example",
		},
		AboutInfo: AboutInfo{
			Values: []string{},
		},
		SocialLinks: SocialLinks{
			Facebook:  "https://facebook.com/gopalmetals",
			Twitter:   "https://twitter.com/gopalmetals",
			Instagram: "https://instagram.com/gopalmetals",
			LinkedIn:  "https://linkedin.com/company/gopalmetals",
			YouTube:   "https://youtube.com/gopalmetals",
		},
		Logo: ImageRef{
			URL: "/files/img/logo.svg",
			Alt: "Gopal Metals Logo",
		},
		HeroImage: ImageRef{
			URL: "/files/img/hero-placeholder.svg",
			Alt: "Wire Mesh Hero Image",
		},
	}
}
