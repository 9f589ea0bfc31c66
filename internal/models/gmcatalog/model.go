package gmcatalog

import (
	"html/template"
	"time"

	"gopalmetals/internal/models/gmmarkdown"

	"gorm.io/gorm"
)

// Models avec tags GORM
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Name            string        `json:"name" gorm:"not null"`
	Slug            string        `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	DescriptionHTML template.HTML `json:"description_html" gorm:"-"`
	Images          string        `json:"images" gorm:"type:text"`
	Price           string        `json:"price"`
	CategoryID      uint          `json:"category_id" gorm:"not null;index"`
	Category        Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Featured        bool          `json:"featured" gorm:"index"`
	Features        string        `json:"features" gorm:"type:text"`
	Applications    string        `json:"applications" gorm:"type:text"`
	Materials       string        `json:"materials" gorm:"type:text"`
	Thickness       string        `json:"thickness"`
	Specifications  string        `json:"specifications" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName spécifie le nom de la table pour Category
func (Category) TableName() string {
	return "categories"
}

// TableName spécifie le nom de la table pour Product
func (Product) TableName() string {
	return "products"
}

// AfterFind rend la description Markdown en HTML pour les templates
func (p *Product) AfterFind(tx *gorm.DB) error {
	if p.Description != "" {
		p.DescriptionHTML = gmmarkdown.ConvertMarkdownToHTML(p.Description)
	}
	return nil
}
