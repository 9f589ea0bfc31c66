package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopalmetals/internal/gmmiddleware"
	"gopalmetals/internal/models/gmconfig"
	"gopalmetals/internal/models/gmlog"
	"gopalmetals/internal/models/gmmarkdown"
	"gopalmetals/internal/models/gmsettings"
	"gopalmetals/internal/models/gmsite"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ============= Setup et Teardown =============

func setupTestConfig(t *testing.T) *gmconfig.Config {
	hash, err := argon2.GenerateFromPassword([]byte("test-password"), argon2.DefaultParams)
	require.NoError(t, err)

	c := &gmconfig.Config{
		Database: gmconfig.DatabaseConfig{
			Db:   "sqlite",
			Path: ":memory:",
		},
		User: gmconfig.UserConfig{
			Login: "admin",
			Hash:  string(hash),
		},
		Production: false,
		StaticPath: t.TempDir(),
		Listen: gmconfig.ListenConfig{
			Website: "localhost:8080",
		},
		Site: gmconfig.SiteConfig{
			Name:        "Gopal Metals",
			BaseURL:     "https://www.example.com",
			Description: "Wire mesh manufacturer",
			Theme:       "blue",
		},
	}

	gmlog.InitLogger(c.Logger, false)
	gmmarkdown.InitMarkdown()

	return c
}

// setupTestApp monte le routeur complet sur une base en mémoire
func setupTestApp(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	configuration = setupTestConfig(t)
	gmsite.Init(configuration, VERSION, "test")

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test-session", store))
	r.Use(gmmiddleware.RenderTime())
	r.SetHTMLTemplate(getTemplates(false))

	setRoutes(r)
	t.Cleanup(sitemapSvc.Stop)

	return r
}

func doRequest(r *gin.Engine, method, path string, body []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// login retourne les cookies de session d'un admin connecté
func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "test-password"})
	w := doRequest(r, http.MethodPost, "/admin/login", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

// ============= Tests des helpers =============

func TestLoadAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	conf := &gmconfig.Config{
		Database: gmconfig.DatabaseConfig{Db: "sqlite", Path: ":memory:"},
		User:     gmconfig.UserConfig{Login: "admin", Pass: "test-password"},
		Listen:   gmconfig.ListenConfig{Website: ":9000"},
	}
	data, err := yaml.Marshal(conf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configFile, data, 0644))

	loaded, err := loadAndValidateConfig(configFile)
	require.NoError(t, err)

	// Valeurs par défaut complétées
	assert.Equal(t, "localhost:9000", loaded.Listen.Website)
	assert.Equal(t, "http://localhost:9000", loaded.Site.BaseURL)

	// Le mot de passe est hashé puis retiré du fichier
	assert.Empty(t, loaded.User.Pass)
	assert.NotEmpty(t, loaded.User.Hash)
	assert.NoError(t, argon2.CompareHashAndPassword([]byte(loaded.User.Hash), []byte("test-password")))

	rewritten, err := gmconfig.LoadConfig(configFile)
	require.NoError(t, err)
	assert.Empty(t, rewritten.User.Pass)
	assert.Equal(t, loaded.User.Hash, rewritten.User.Hash)
}

func TestLoadAndValidateConfigErrors(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	write := func(conf *gmconfig.Config) {
		data, _ := yaml.Marshal(conf)
		os.WriteFile(configFile, data, 0644)
	}

	write(&gmconfig.Config{})
	_, err := loadAndValidateConfig(configFile)
	assert.Error(t, err)

	write(&gmconfig.Config{Database: gmconfig.DatabaseConfig{Db: "sqlite"}})
	_, err = loadAndValidateConfig(configFile)
	assert.Error(t, err)

	write(&gmconfig.Config{Database: gmconfig.DatabaseConfig{Db: "mysql"}})
	_, err = loadAndValidateConfig(configFile)
	assert.Error(t, err)

	// Mot de passe trop court
	write(&gmconfig.Config{
		Database: gmconfig.DatabaseConfig{Db: "sqlite", Path: ":memory:"},
		User:     gmconfig.UserConfig{Login: "admin", Pass: "short"},
	})
	_, err = loadAndValidateConfig(configFile)
	assert.Error(t, err)
}

func TestGenerateRandomString(t *testing.T) {
	s := generateRandomString(8)
	assert.Len(t, s, 8)
	assert.NotEqual(t, s, generateRandomString(8))
}

func TestGenerateETag(t *testing.T) {
	etag := generateETag([]byte("hello"))
	assert.True(t, strings.HasPrefix(etag, `"`))
	assert.True(t, strings.HasSuffix(etag, `"`))
	assert.Equal(t, etag, generateETag([]byte("hello")))
	assert.NotEqual(t, etag, generateETag([]byte("world")))
}

func TestJsonify(t *testing.T) {
	assert.Equal(t, "[]", string(jsonify(nil)))
	assert.Equal(t, "[]", string(jsonify([]string{})))
	assert.Equal(t, `["a","b"]`, string(jsonify([]string{"a", "b"})))
}

func TestEscapeJS(t *testing.T) {
	assert.Equal(t, `it\'s \"ok\"`, string(escapeJS(`it's "ok"`)))
	assert.Equal(t, `line1\nline2`, string(escapeJS("line1\nline2")))
}

// ============= Tests des pages publiques =============

func TestPublicPages(t *testing.T) {
	r := setupTestApp(t)

	for _, path := range []string{"/", "/about", "/contact", "/products"} {
		w := doRequest(r, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	// Le catalogue est pré-rempli au premier lancement
	w := doRequest(r, http.MethodGet, "/products/category/wire-mesh", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/products/stainless-steel-wire-mesh", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stainless Steel Wire Mesh")

	w = doRequest(r, http.MethodGet, "/products/unknown-product", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/nonexistent", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSitemapAndRobots(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/sitemap.xml", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "https://www.example.com/products/stainless-steel-wire-mesh")

	w = doRequest(r, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: https://www.example.com/sitemap.xml")
}

// ============= Tests de l'API publique =============

func TestAPICategories(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Len(t, categories, 3)
}

func TestAPIProducts(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	w = doRequest(r, http.MethodGet, "/api/products?featured=true&limit=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1)

	w = doRequest(r, http.MethodGet, "/api/products?category=unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/products/gi-perforated-sheet", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPISettings(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/api/settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc gmsettings.WebsiteSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.ContactInfo.CompanyName)
	assert.NotEmpty(t, doc.ContactInfo.ContactFormEmails)
}

func TestAPIContactRequiresCaptcha(t *testing.T) {
	r := setupTestApp(t)

	body, _ := json.Marshal(map[string]string{
		"name":    "John Doe",
		"email":   "john@example.com",
		"message": "Need a quote",
	})
	w := doRequest(r, http.MethodPost, "/api/contact", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CAPTCHA")
}

func TestAPIContactHoneypot(t *testing.T) {
	r := setupTestApp(t)

	body, _ := json.Marshal(map[string]string{
		"name":    "Bot",
		"email":   "bot@example.com",
		"message": "spam",
		"website": "http://spam.example",
	})
	w := doRequest(r, http.MethodPost, "/api/contact", body, nil)
	// Faux succès: le bot ne doit pas savoir qu'il a été détecté
	assert.Equal(t, http.StatusOK, w.Code)

	site := gmsite.GetInstance()
	assert.Equal(t, int64(0), site.Contact.Count())
}

func TestCaptchaEndpoint(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/files/captcha", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.NotEmpty(t, data["captcha_id"])
	assert.NotEmpty(t, data["image"])
	// Hors production, la réponse est exposée pour les tests manuels
	assert.NotEmpty(t, data["answer"])
}

// ============= Tests d'authentification =============

func TestLoginFlow(t *testing.T) {
	r := setupTestApp(t)

	// Mauvais mot de passe
	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "wrong-password"})
	w := doRequest(r, http.MethodPost, "/admin/login", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Mauvais login
	body, _ = json.Marshal(LoginRequest{Username: "nobody", Password: "test-password"})
	w = doRequest(r, http.MethodPost, "/admin/login", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Succès
	cookies := login(t, r)
	assert.NotEmpty(t, cookies)

	// Déconnexion
	w = doRequest(r, http.MethodPost, "/admin/logout", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := setupTestApp(t)

	// Sans session: redirection vers le login pour les pages HTML
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	// Sans session: 401 JSON pour l'API
	w = doRequest(r, http.MethodGet, "/api/admin/enquiries", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Avec session: accès autorisé
	cookies := login(t, r)
	w = doRequest(r, http.MethodGet, "/api/admin/enquiries", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ============= Tests de l'API admin =============

func TestAdminPages(t *testing.T) {
	r := setupTestApp(t)
	cookies := login(t, r)

	for _, path := range []string{"/admin/", "/admin/products", "/admin/settings", "/admin/enquiries", "/admin/visits"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAdminCatalogCRUD(t *testing.T) {
	r := setupTestApp(t)
	cookies := login(t, r)

	// Créer une catégorie
	body, _ := json.Marshal(map[string]string{"name": "Test Category"})
	w := doRequest(r, http.MethodPost, "/api/admin/categories", body, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var category map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(t, "test-category", category["slug"])
	categoryID := int(category["id"].(float64))

	// Slug en conflit
	w = doRequest(r, http.MethodPost, "/api/admin/categories", body, cookies)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Créer un produit dans la catégorie
	body, _ = json.Marshal(map[string]any{
		"name":        "Test Product",
		"category_id": categoryID,
		"description": "A test product",
	})
	w = doRequest(r, http.MethodPost, "/api/admin/products", body, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var product map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	productID := int(product["id"].(float64))

	// Mettre à jour le produit
	body, _ = json.Marshal(map[string]any{
		"name":     "Updated Product",
		"featured": true,
	})
	w = doRequest(r, http.MethodPut, fmt.Sprintf("/api/admin/products/%d", productID), body, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "Updated Product", product["name"])
	assert.Equal(t, true, product["featured"])

	// Le produit est visible publiquement
	w = doRequest(r, http.MethodGet, "/api/products/test-product", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Supprimer le produit puis la catégorie
	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", productID), nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", categoryID), nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", productID), nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminSettingsSave(t *testing.T) {
	r := setupTestApp(t)
	cookies := login(t, r)

	site := gmsite.GetInstance()
	doc := site.Settings.Get()
	doc.ContactInfo.CompanyName = "Renamed Company"
	doc.ContactInfo.ContactFormEmails = nil

	body, _ := json.Marshal(doc)
	w := doRequest(r, http.MethodPut, "/api/admin/settings", body, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var saved gmsettings.WebsiteSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "Renamed Company", saved.ContactInfo.CompanyName)
	// Les destinataires du formulaire ne doivent jamais rester vides
	assert.NotEmpty(t, saved.ContactInfo.ContactFormEmails)
}

func TestAdminAnalyticsEndpoints(t *testing.T) {
	r := setupTestApp(t)
	cookies := login(t, r)

	w := doRequest(r, http.MethodGet, "/api/admin/analytics/summary", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Contains(t, summary, "totalPageViews")
	assert.Contains(t, summary, "uniqueVisitors")
	assert.Contains(t, summary, "topPages")

	w = doRequest(r, http.MethodGet, "/api/admin/analytics/visits?days=7", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var visits map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &visits))
	assert.Contains(t, visits, "visits")
	assert.Contains(t, visits, "count")
}

// ============= Tests des fichiers statiques =============

func TestServeMinifiedStatic(t *testing.T) {
	r := setupTestApp(t)

	w := doRequest(r, http.MethodGet, "/files/css/style.css", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.NotEmpty(t, w.Header().Get("ETag"))

	w = doRequest(r, http.MethodGet, "/files/js/main.js", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/javascript")

	w = doRequest(r, http.MethodGet, "/files/img/logo.svg", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/svg+xml")

	w = doRequest(r, http.MethodGet, "/files/css/missing.css", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
