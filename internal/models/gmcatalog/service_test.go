package gmcatalog

import (
	"testing"

	"gopalmetals/internal/models/gmmarkdown"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *Service {
	gmmarkdown.InitMarkdown()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(&Category{}, &Product{})
	require.NoError(t, err)

	return NewService(testDB)
}

func createTestCategory(t *testing.T, s *Service, name string) *Category {
	category := &Category{Name: name}
	require.NoError(t, s.CreateCategory(category))
	return category
}

// ============= Catégories =============

func TestCreateCategory(t *testing.T) {
	s := setupTestService(t)

	category := createTestCategory(t, s, "Wire Mesh")
	assert.NotZero(t, category.ID)
	assert.Equal(t, "wire-mesh", category.Slug)

	err := s.CreateCategory(&Category{})
	assert.Error(t, err)
}

func TestCreateCategorySlugTaken(t *testing.T) {
	s := setupTestService(t)
	createTestCategory(t, s, "Wire Mesh")

	err := s.CreateCategory(&Category{Name: "Wire Mesh"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestListCategoriesOrder(t *testing.T) {
	s := setupTestService(t)
	createTestCategory(t, s, "Gratings")
	createTestCategory(t, s, "Wire Mesh")
	createTestCategory(t, s, "Perforated Sheets")

	categories, err := s.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Gratings", categories[0].Name)
	assert.Equal(t, "Perforated Sheets", categories[1].Name)
	assert.Equal(t, "Wire Mesh", categories[2].Name)
}

func TestGetCategoryBySlug(t *testing.T) {
	s := setupTestService(t)
	createTestCategory(t, s, "Wire Mesh")

	category, err := s.GetCategoryBySlug("wire-mesh")
	require.NoError(t, err)
	assert.Equal(t, "Wire Mesh", category.Name)

	_, err = s.GetCategoryBySlug("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCategory(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")
	other := createTestCategory(t, s, "Gratings")

	updated, err := s.UpdateCategory(category.ID, &Category{Name: "Welded Mesh", Slug: "welded-mesh"})
	require.NoError(t, err)
	assert.Equal(t, "Welded Mesh", updated.Name)
	assert.Equal(t, "welded-mesh", updated.Slug)

	_, err = s.UpdateCategory(other.ID, &Category{Name: "X", Slug: "welded-mesh"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = s.UpdateCategory(9999, &Category{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")

	require.NoError(t, s.CreateProduct(&Product{Name: "SS Mesh", CategoryID: category.ID}))
	require.NoError(t, s.CreateProduct(&Product{Name: "GI Mesh", CategoryID: category.ID}))

	require.NoError(t, s.DeleteCategory(category.ID))

	products, err := s.ListProducts(ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.ErrorIs(t, s.DeleteCategory(category.ID), ErrNotFound)
}

// ============= Produits =============

func TestCreateProduct(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")

	product := &Product{Name: "SS 304 Wire Mesh", CategoryID: category.ID}
	require.NoError(t, s.CreateProduct(product))
	assert.Equal(t, "ss-304-wire-mesh", product.Slug)

	assert.Error(t, s.CreateProduct(&Product{Name: "No Category"}))
	assert.Error(t, s.CreateProduct(&Product{CategoryID: category.ID}))
	assert.ErrorIs(t, s.CreateProduct(&Product{Name: "SS 304 Wire Mesh", CategoryID: category.ID}), ErrSlugTaken)
}

func TestGetProductBySlug(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")
	require.NoError(t, s.CreateProduct(&Product{
		Name:        "SS Mesh",
		CategoryID:  category.ID,
		Description: "A **strong** mesh",
	}))

	product, err := s.GetProductBySlug("ss-mesh")
	require.NoError(t, err)
	assert.Equal(t, "SS Mesh", product.Name)
	// La catégorie est préchargée et le Markdown rendu
	assert.Equal(t, "Wire Mesh", product.Category.Name)
	assert.Contains(t, string(product.DescriptionHTML), "<strong>")

	_, err = s.GetProductBySlug("unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFilters(t *testing.T) {
	s := setupTestService(t)
	mesh := createTestCategory(t, s, "Wire Mesh")
	gratings := createTestCategory(t, s, "Gratings")

	require.NoError(t, s.CreateProduct(&Product{Name: "SS Mesh", CategoryID: mesh.ID, Featured: true}))
	require.NoError(t, s.CreateProduct(&Product{Name: "GI Mesh", CategoryID: mesh.ID}))
	require.NoError(t, s.CreateProduct(&Product{Name: "Steel Grating", CategoryID: gratings.ID}))

	products, err := s.ListProducts(ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 3)

	products, err = s.ListProducts(ProductFilter{CategorySlug: "wire-mesh"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = s.ListProducts(ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SS Mesh", products[0].Name)

	products, err = s.ListProducts(ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = s.ListProducts(ProductFilter{CategorySlug: "unknown"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")
	product := &Product{Name: "SS Mesh", CategoryID: category.ID}
	require.NoError(t, s.CreateProduct(product))

	updated, err := s.UpdateProduct(product.ID, &Product{
		Name:      "SS 316 Mesh",
		Materials: "Stainless Steel 316",
		Featured:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SS 316 Mesh", updated.Name)
	assert.Equal(t, "Stainless Steel 316", updated.Materials)
	assert.True(t, updated.Featured)
	// Le slug d'origine est conservé si non fourni
	assert.Equal(t, "ss-mesh", updated.Slug)

	_, err = s.UpdateProduct(9999, &Product{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")
	product := &Product{Name: "SS Mesh", CategoryID: category.ID}
	require.NoError(t, s.CreateProduct(product))

	require.NoError(t, s.DeleteProduct(product.ID))
	assert.ErrorIs(t, s.DeleteProduct(product.ID), ErrNotFound)
}

func TestCounts(t *testing.T) {
	s := setupTestService(t)
	category := createTestCategory(t, s, "Wire Mesh")
	require.NoError(t, s.CreateProduct(&Product{Name: "SS Mesh", CategoryID: category.ID}))
	require.NoError(t, s.CreateProduct(&Product{Name: "GI Mesh", CategoryID: category.ID}))

	products, categories := s.Counts()
	assert.Equal(t, int64(2), products)
	assert.Equal(t, int64(1), categories)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "", Slugify(""))
	assert.Equal(t, "wire-mesh", Slugify("Wire Mesh"))
	assert.Equal(t, "ss-304-mesh", Slugify("SS 304 Mesh!"))
	assert.Equal(t, "pre-cut-mesh", Slugify("Pre-Cut Mesh"))
}
