package gmcatalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

var (
	ErrSlugTaken = errors.New("slug déjà utilisé")
	ErrNotFound  = errors.New("introuvable")
)

// Service porte le CRUD du catalogue produits/catégories
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ============= Catégories =============

// ListCategories retourne toutes les catégories par nom croissant
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	err := s.db.Order("name asc").Find(&categories).Error
	return categories, err
}

func (s *Service) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	err := s.db.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) CreateCategory(category *Category) error {
	if category.Name == "" {
		return fmt.Errorf("le nom est requis")
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}

	if s.slugExists(&Category{}, category.Slug, 0) {
		return ErrSlugTaken
	}

	return s.db.Create(category).Error
}

func (s *Service) UpdateCategory(id uint, updated *Category) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if updated.Slug != "" && updated.Slug != category.Slug && s.slugExists(&Category{}, updated.Slug, id) {
		return nil, ErrSlugTaken
	}

	category.Name = updated.Name
	if updated.Slug != "" {
		category.Slug = updated.Slug
	}
	category.Image = updated.Image

	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory supprime la catégorie et ses produits
func (s *Service) DeleteCategory(id uint) error {
	result := s.db.Delete(&Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.Where("category_id = ?", id).Delete(&Product{}).Error
}

// ============= Produits =============

// ProductFilter restreint la liste des produits
type ProductFilter struct {
	CategorySlug string
	FeaturedOnly bool
	Limit        int
}

// ListProducts retourne les produits, les plus récents en premier
func (s *Service) ListProducts(filter ProductFilter) ([]Product, error) {
	query := s.db.Preload("Category").Order("created_at desc")

	if filter.CategorySlug != "" {
		category, err := s.GetCategoryBySlug(filter.CategorySlug)
		if err != nil {
			return nil, err
		}
		query = query.Where("category_id = ?", category.ID)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []Product
	err := query.Find(&products).Error
	return products, err
}

func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	err := s.db.Preload("Category").Where("slug = ?", slug).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	err := s.db.Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) CreateProduct(product *Product) error {
	if product.Name == "" || product.CategoryID == 0 {
		return fmt.Errorf("le nom et la catégorie sont requis")
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}

	if s.slugExists(&Product{}, product.Slug, 0) {
		return ErrSlugTaken
	}

	return s.db.Create(product).Error
}

func (s *Service) UpdateProduct(id uint, updated *Product) (*Product, error) {
	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if updated.Slug != "" && updated.Slug != product.Slug && s.slugExists(&Product{}, updated.Slug, id) {
		return nil, ErrSlugTaken
	}

	product.Name = updated.Name
	if updated.Slug != "" {
		product.Slug = updated.Slug
	}
	product.Description = updated.Description
	product.Images = updated.Images
	product.Price = updated.Price
	if updated.CategoryID != 0 {
		product.CategoryID = updated.CategoryID
	}
	product.Featured = updated.Featured
	product.Features = updated.Features
	product.Applications = updated.Applications
	product.Materials = updated.Materials
	product.Thickness = updated.Thickness
	product.Specifications = updated.Specifications

	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts retourne les compteurs pour le dashboard admin
func (s *Service) Counts() (products int64, categories int64) {
	s.db.Model(&Product{}).Count(&products)
	s.db.Model(&Category{}).Count(&categories)
	return
}

func (s *Service) slugExists(model any, slug string, excludeID uint) bool {
	var count int64
	query := s.db.Model(model).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	query.Count(&count)
	return count > 0
}

// Slugify normalise un nom en slug URL
func Slugify(s string) string {
	var result strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else if unicode.IsSpace(r) {
			result.WriteRune('-')
		} else if r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
