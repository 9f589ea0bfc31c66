package main

import (
	"crypto/sha256"
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	mrand "math/rand"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"gopalmetals/internal/gmmiddleware"
	handlers_analytics "gopalmetals/internal/handlers/analytics"
	handlers_catalog "gopalmetals/internal/handlers/catalog"
	handlers_contact "gopalmetals/internal/handlers/contact"
	handlers_settings "gopalmetals/internal/handlers/settings"
	handlers_sitemap "gopalmetals/internal/handlers/sitemap"
	"gopalmetals/internal/models/gmcatalog"
	"gopalmetals/internal/models/gmconfig"
	"gopalmetals/internal/models/gmimages"
	"gopalmetals/internal/models/gmlog"
	"gopalmetals/internal/models/gmmarkdown"
	"gopalmetals/internal/models/gmseo"
	"gopalmetals/internal/models/gmsite"
	"gopalmetals/internal/models/gmsitemap"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	htmlmin "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const VERSION string = "1.0.0"

// global instance
var (
	configuration *gmconfig.Config
	BuildID       string
	sitemapSvc    *gmsitemap.Service
)

//go:embed templates/**/*.html
var templatesFS embed.FS

//go:embed ressources/js
//go:embed ressources/css
//go:embed ressources/img
var staticFS embed.FS

// Requests structs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loadAndValidateConfig(configFile string) (*gmconfig.Config, error) {
	conf, err := gmconfig.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("erreur chargement config: %v", err)
	}

	if conf.Database.Db == "sqlite" && conf.Database.Path == "" {
		return nil, fmt.Errorf("database.path ne peut pas être vide")
	}
	if conf.Database.Db == "mysql" && conf.Database.Dsn == "" {
		return nil, fmt.Errorf("database.dsn ne peut pas être vide")
	}
	if conf.Database.Db == "" {
		return nil, fmt.Errorf("database.db ne peut pas être vide")
	}

	if conf.Listen.Website == "" {
		conf.Listen.Website = "localhost:8080"
	}
	if strings.HasPrefix(conf.Listen.Website, ":") {
		conf.Listen.Website = "localhost" + conf.Listen.Website
	}

	if conf.Site.BaseURL == "" {
		conf.Site.BaseURL = "http://" + conf.Listen.Website
	}

	// Hasher le mot de passe en argon2 au premier lancement puis le retirer
	// du fichier
	if conf.User.Pass != "" {
		if len(conf.User.Pass) < 8 {
			return nil, fmt.Errorf("le mot de passe doit contenir au moins 8 caractères")
		}

		hash, err := argon2.GenerateFromPassword([]byte(conf.User.Pass), argon2.DefaultParams)
		if err != nil {
			return nil, err
		}
		conf.User.Hash = string(hash)
		conf.User.Pass = ""
		err = gmconfig.WriteConfigYaml(configFile, conf)
		if err != nil {
			return nil, err
		}
	}

	return conf, nil
}

func generateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.Intn(len(charset))]
	}
	return string(b)
}

// Middleware d'authentification
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			if strings.HasPrefix(c.Request.Header.Get("Content-Type"), "application/json") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
			} else {
				c.Redirect(http.StatusTemporaryRedirect, "/admin/login")
			}
			c.Abort()
			return
		}
		c.Set("authenticated", true)
		c.Next()
	}
}

func safeCSS(css string) template.CSS {
	return template.CSS(css)
}

func safeHtml(html string) template.HTML {
	return template.HTML(html)
}

func escapeJS(s string) template.JS {
	// Échappe les caractères problématiques pour JavaScript
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return template.JS(s)
}

func jsonify(v any) template.JS {
	if v == nil {
		return template.JS("[]")
	}

	// Vérifier si c'est un slice vide
	if reflect.ValueOf(v).Kind() == reflect.Slice && reflect.ValueOf(v).Len() == 0 {
		return template.JS("[]")
	}

	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("[]")
	}

	return template.JS(b)
}

// Middleware pour minifier les fichiers statiques CSS/JS
func ServeMinifiedStatic(m *minify.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, "/files/")
		content, err := fs.ReadFile(staticFS, "ressources/"+path)
		if err != nil {
			pageNotFound(c, "Fichier non trouvé")
			return
		}

		ext := filepath.Ext(path)
		var contentType string
		var minified []byte

		switch ext {
		case ".css":
			contentType = "text/css"
			minified, err = m.Bytes("text/css", content)
		case ".js":
			contentType = "application/javascript"
			minified, err = m.Bytes("application/javascript", content)
		case ".svg":
			// En-têtes de cache pour SVG
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
			c.Header("ETag", generateETag(content))
			c.Data(http.StatusOK, "image/svg+xml", content)
			return
		default:
			c.Data(http.StatusOK, "application/octet-stream", content)
			return
		}

		if err != nil {
			minified = content
		}

		// En-têtes de cache pour CSS et JS
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Header("ETag", generateETag(minified))

		c.Data(http.StatusOK, contentType, minified)
	}
}

// Fonction helper pour générer un ETag
func generateETag(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf(`"%x"`, hash[:16])
}

func getTemplates(production bool) *template.Template {
	m := minify.New()

	if production {
		m.AddFunc("text/html", htmlmin.Minify)
	}

	tmpl := template.New("").Funcs(template.FuncMap{
		"safeCSS":  safeCSS,
		"safeHtml": safeHtml,
		"escapeJS": escapeJS,
		"jsonify":  jsonify,
	})

	// Lire tous les fichiers HTML
	fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".html" {
			return err
		}

		content, _ := fs.ReadFile(templatesFS, path)
		minified, err := m.Bytes("text/html", content)
		if err != nil {
			minified = content
		}

		tmpl.New(path).Parse(string(minified))
		return nil
	})

	return tmpl
}

func initConfiguration() {
	configFile, shouldCreateExample, versionDisplay, err := parseCommandLineArgs()
	if err != nil {
		fmt.Println("Usage:")
		fmt.Println("  gopalmetals -config gopalmetals.yaml")
		fmt.Println("  gopalmetals -example  (pour créer un fichier exemple)")
		fmt.Println("  gopalmetals -version  (affiche la version)")
		os.Exit(1)
	}

	if versionDisplay {
		println(VERSION)
		os.Exit(0)
	}

	gmconfig.CreateExample(shouldCreateExample, configFile)

	// Load and validate configuration
	conf, err := loadAndValidateConfig(configFile)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	configuration = conf
}

func newServer() *gin.Engine {
	if configuration.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if configuration.TrustedProxies != nil {
		r.SetTrustedProxies(configuration.TrustedProxies)
	}
	if configuration.TrustedPlatform != "" {
		switch configuration.TrustedPlatform {
		case "cloudflare":
			r.TrustedPlatform = gin.PlatformCloudflare
		case "google":
			r.TrustedPlatform = gin.PlatformGoogleAppEngine
		case "flyio":
			r.TrustedPlatform = gin.PlatformFlyIO
		default:
			r.TrustedPlatform = configuration.TrustedPlatform
		}
	}

	// parser les templates
	r.SetHTMLTemplate(getTemplates(configuration.Production))

	return r
}

func setRoutes(r *gin.Engine) {
	site := gmsite.GetInstance()

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	// middleware rate limiters
	loginLimiter := gmmiddleware.NewLimiter()
	contactLimiter := gmmiddleware.NewContactLimiter()

	// handlers
	sitemapSvc = gmsitemap.NewService(site.Catalog, configuration.Site.BaseURL)
	analyticsHandler := handlers_analytics.NewAnalyticsHandler(site.Analytics)
	catalogHandler := handlers_catalog.NewCatalogHandler(site.Catalog, sitemapSvc)
	contactHandler := handlers_contact.NewContactHandler(site.Contact, site.Captcha, configuration.Production)
	settingsHandler := handlers_settings.NewSettingsHandler(site.Settings)
	sitemapHandler := handlers_sitemap.NewSitemapHandler(sitemapSvc)

	// tracking des visites sur les pages publiques
	r.Use(gmmiddleware.Tracking(site.Analytics, configuration.Analytics.Enabled))

	//default
	r.NoRoute(func(c *gin.Context) {
		pageNotFound(c, "Page non trouvée")
	})

	// Route statiques
	r.Static("/static/", configuration.StaticPath)
	r.GET("/files/css/*.css", ServeMinifiedStatic(m))
	r.GET("/files/js/*.js", ServeMinifiedStatic(m))
	r.GET("/files/img/*.svg", ServeMinifiedStatic(m))

	// Pages publiques
	r.GET("/", indexHandler)
	r.GET("/about", aboutHandler)
	r.GET("/contact", contactPageHandler)
	r.GET("/products", productsHandler)
	r.GET("/products/category/:slug", productsHandler)
	r.GET("/products/:slug", productHandler)
	r.GET("/files/captcha", contactHandler.Captcha)

	// SEO
	r.GET("/sitemap.xml", sitemapHandler.Sitemap)
	r.GET("/robots.txt", sitemapHandler.Robots)

	// Routes d'authentification
	r.GET("/admin/login", loginPageHandler)
	r.POST("/admin/login", loginLimiter, loginHandler)
	r.POST("/admin/logout", logoutHandler)

	// Routes d'administration protégées
	admin := r.Group("/admin")
	admin.Use(authRequired())
	{
		admin.GET("/", adminDashboardHandler)
		admin.GET("/products", adminProductsHandler)
		admin.GET("/settings", adminSettingsHandler)
		admin.GET("/enquiries", adminEnquiriesHandler)
		admin.GET("/visits", adminVisitsHandler)
		admin.POST("/upload/image", uploadImageHandler)
	}

	// API publiques
	api := r.Group("/api")
	{
		api.GET("/categories", catalogHandler.ListCategories)
		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/products/:slug", catalogHandler.GetProduct)
		api.GET("/settings", settingsHandler.Get)
		api.POST("/contact", contactLimiter, contactHandler.Submit)
	}

	// API d'administration protégées
	apiAdmin := r.Group("/api/admin")
	apiAdmin.Use(authRequired())
	{
		apiAdmin.POST("/categories", catalogHandler.CreateCategory)
		apiAdmin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		apiAdmin.DELETE("/categories/:id", catalogHandler.DeleteCategory)
		apiAdmin.POST("/products", catalogHandler.CreateProduct)
		apiAdmin.PUT("/products/:id", catalogHandler.UpdateProduct)
		apiAdmin.DELETE("/products/:id", catalogHandler.DeleteProduct)
		apiAdmin.PUT("/settings", settingsHandler.Save)
		apiAdmin.GET("/enquiries", contactHandler.List)
		apiAdmin.DELETE("/enquiries/:id", contactHandler.Delete)
		apiAdmin.GET("/analytics/summary", analyticsHandler.GetSummary)
		apiAdmin.GET("/analytics/visits", analyticsHandler.GetVisits)
	}
}

func startServer(r *gin.Engine) {
	log.Info().Msgf("Website démarré sur http://%s", configuration.Listen.Website)
	log.Info().Msgf("Admin: http://%s/admin/login", configuration.Listen.Website)
	r.Run(configuration.Listen.Website)
}

func parseCommandLineArgs() (configFile string, shouldCreateExample bool, versionDisplay bool, err error) {
	var config = flag.String("config", "", "Fichier de configuration YAML")
	var example = flag.Bool("example", false, "Créer un fichier de configuration exemple")
	var version = flag.Bool("version", false, "version du produit")
	flag.Parse()

	if *version {
		return "", false, true, nil
	}

	if *example {
		return "", true, false, nil
	}

	if *config == "" {
		return "", false, false, fmt.Errorf("fichier de configuration requis")
	}

	return *config, false, false, nil
}

func main() {
	if BuildID == "" {
		BuildID = VERSION
	}

	initConfiguration()
	gmlog.InitLogger(configuration.Logger, configuration.Production)
	gmconfig.DisplayConfiguration(configuration, VERSION)
	gmmarkdown.InitMarkdown()
	gmsite.Init(configuration, VERSION, BuildID)

	r := newServer()

	gmmiddleware.InitMiddleware(r, configuration.Production)
	setRoutes(r)

	startServer(r)
}

// baseTemplateData retourne les données communes à toutes les pages
func baseTemplateData(c *gin.Context, title string) gin.H {
	site := gmsite.GetInstance()
	settings := site.Settings.Get()

	session := sessions.Default(c)
	isAdmin := session.Get("user_id") != nil

	return gin.H{
		"title":           title,
		"siteName":        configuration.Site.Name,
		"description":     configuration.Site.Description,
		"settings":        settings,
		"isAuthenticated": isAdmin,
		"currentYear":     time.Now().Year(),
		"theme":           site.ThemeCSS,
		"favicon":         configuration.Site.Favicon,
		"version":         VERSION,
		"BuildID":         BuildID,
		"renderTime":      gmmiddleware.GetRenderTime(c),
	}
}

// ============= HANDLERS PUBLICS =============

func indexHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	featured, err := site.Catalog.ListProducts(gmcatalog.ProductFilter{FeaturedOnly: true, Limit: 6})
	if err != nil {
		featured = []gmcatalog.Product{}
	}
	categories, err := site.Catalog.ListCategories()
	if err != nil {
		categories = []gmcatalog.Category{}
	}

	data := baseTemplateData(c, configuration.Site.Name)
	data["featured"] = featured
	data["categories"] = categories
	data["ogType"] = "website"
	data["meta"] = gmseo.PageMeta(configuration.Site.Name, configuration.Site.BaseURL, "", configuration.Site.Description, "/")

	c.HTML(http.StatusOK, "index", data)
}

func aboutHandler(c *gin.Context) {
	data := baseTemplateData(c, "About Us")
	data["meta"] = gmseo.PageMeta(configuration.Site.Name, configuration.Site.BaseURL, "About Us", configuration.Site.Description, "/about")

	c.HTML(http.StatusOK, "about", data)
}

func contactPageHandler(c *gin.Context) {
	data := baseTemplateData(c, "Contact Us")
	data["meta"] = gmseo.PageMeta(configuration.Site.Name, configuration.Site.BaseURL, "Contact Us", configuration.Site.Description, "/contact")

	c.HTML(http.StatusOK, "contact", data)
}

func productsHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	filter := gmcatalog.ProductFilter{CategorySlug: c.Param("slug")}
	products, err := site.Catalog.ListProducts(filter)
	if err != nil {
		pageNotFound(c, "Catégorie non trouvée")
		return
	}
	categories, err := site.Catalog.ListCategories()
	if err != nil {
		categories = []gmcatalog.Category{}
	}

	title := "Products"
	path := "/products"
	if filter.CategorySlug != "" {
		category, err := site.Catalog.GetCategoryBySlug(filter.CategorySlug)
		if err != nil {
			pageNotFound(c, "Catégorie non trouvée")
			return
		}
		title = category.Name
		path = "/products/category/" + category.Slug
	}

	data := baseTemplateData(c, title)
	data["products"] = products
	data["categories"] = categories
	data["currentCategory"] = filter.CategorySlug
	data["meta"] = gmseo.PageMeta(configuration.Site.Name, configuration.Site.BaseURL, title, configuration.Site.Description, path)

	c.HTML(http.StatusOK, "products", data)
}

func productHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	product, err := site.Catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		pageNotFound(c, "Produit non trouvé")
		return
	}

	data := baseTemplateData(c, product.Name)
	data["product"] = product
	data["ogType"] = "product"
	data["meta"] = gmseo.ProductMeta(configuration.Site.Name, configuration.Site.BaseURL, product)

	c.HTML(http.StatusOK, "product_detail", data)
}

func pageNotFound(c *gin.Context, title string) {
	data := baseTemplateData(c, title)
	data["description"] = "La page que vous recherchez n'existe pas."

	c.HTML(http.StatusNotFound, "404_not_found", data)
}

// ============= HANDLERS D'AUTHENTIFICATION =============

func loginPageHandler(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("user_id") != nil {
		c.Redirect(http.StatusTemporaryRedirect, "/admin")
		return
	}

	c.HTML(http.StatusOK, "admin_login", baseTemplateData(c, "Connexion Admin"))
}

func loginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Vérification login / pass
	err := argon2.CompareHashAndPassword([]byte(configuration.User.Hash), []byte(req.Password))
	if err != nil || req.Username != configuration.User.Login {
		log.Warn().Str("user", req.Username).Str("ip", c.ClientIP()).Msg("Tentative de connexion échouée")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}
	log.Info().Str("user", req.Username).Str("ip", c.ClientIP()).Msg("Connexion réussie")

	// Créer la session
	session := sessions.Default(c)
	session.Set("user_id", "admin")
	session.Set("username", req.Username)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Connexion réussie",
		"redirect": "/admin",
	})
}

func logoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// ============= HANDLERS D'ADMINISTRATION =============

func adminTemplateData(c *gin.Context, title, pageTitle, pageIcon, currentPage string) gin.H {
	session := sessions.Default(c)
	username := session.Get("username")

	data := baseTemplateData(c, title)
	data["pageTitle"] = pageTitle
	data["pageIcon"] = pageIcon
	data["currentPage"] = currentPage
	data["username"] = username
	data["isAdmin"] = true
	data["memories"] = getMemUsage()
	return data
}

func adminDashboardHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	products, categories := site.Catalog.Counts()
	stats := gin.H{
		"TotalProducts":   products,
		"TotalCategories": categories,
		"TotalEnquiries":  site.Contact.Count(),
		"Summary":         site.Analytics.GetSummary(30),
	}

	recent, err := site.Contact.List(5)
	if err != nil {
		recent = nil
	}

	data := adminTemplateData(c, "Dashboard Admin", "Dashboard", "📊", "dashboard")
	data["stats"] = stats
	data["recentSubmissions"] = recent

	c.HTML(http.StatusOK, "admin_dashboard", data)
}

func adminProductsHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	products, err := site.Catalog.ListProducts(gmcatalog.ProductFilter{})
	if err != nil {
		products = []gmcatalog.Product{}
	}
	categories, err := site.Catalog.ListCategories()
	if err != nil {
		categories = []gmcatalog.Category{}
	}

	data := adminTemplateData(c, "Gestion des Produits", "Gestion des Produits", "🏭", "products")
	data["products"] = products
	data["categories"] = categories

	c.HTML(http.StatusOK, "admin_products", data)
}

func adminSettingsHandler(c *gin.Context) {
	data := adminTemplateData(c, "Configuration du Site", "Configuration du Site", "⚙️", "settings")

	c.HTML(http.StatusOK, "admin_settings", data)
}

func adminEnquiriesHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	submissions, err := site.Contact.List(100)
	if err != nil {
		submissions = nil
	}

	data := adminTemplateData(c, "Demandes de Contact", "Demandes de Contact", "📬", "enquiries")
	data["submissions"] = submissions

	c.HTML(http.StatusOK, "admin_enquiries", data)
}

func adminVisitsHandler(c *gin.Context) {
	site := gmsite.GetInstance()

	data := adminTemplateData(c, "Statistiques de Visites", "Statistiques de Visites", "📈", "visits")
	data["summary"] = site.Analytics.GetSummary(30)
	data["visits"] = site.Analytics.GetVisits(7)

	c.HTML(http.StatusOK, "admin_visits", data)
}

func getMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Statistiques mémoire: allouée = %v Mo, total allouée = %d Mo, système = %v Mo, nombre de GC = %v\n", m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.NumGC)
}

func uploadImageHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier non trouvé"})
		return
	}
	defer file.Close()

	// Vérifier le type MIME
	buffer := make([]byte, 512)
	_, err = file.Read(buffer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture fichier"})
		return
	}

	contentType := http.DetectContentType(buffer)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le fichier doit être une image"})
		return
	}

	// Limiter la taille (ex: 10MB avant compression)
	if header.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop grande (max 10MB)"})
		return
	}

	// Réinitialiser le curseur du fichier
	file.Seek(0, 0)

	// Décoder l'image
	img, format, err := image.Decode(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage image"})
		return
	}

	// Redimensionner si nécessaire
	processedImg := gmimages.Resize(img, 1600)

	// Créer le dossier uploads s'il n'existe pas
	uploadsDir := filepath.Join(configuration.StaticPath, "uploads")
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création dossier"})
		return
	}

	// Générer un nom unique
	var ext string
	switch format {
	case "jpeg", "jpg":
		ext = ".jpg"
	case "png":
		ext = ".png"
	case "gif":
		ext = ".gif"
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seule les images jpg, png et gif sont supportées"})
		return
	}

	filename := fmt.Sprintf("%d_%s%s",
		time.Now().Unix(),
		generateRandomString(8),
		ext)

	outputPath := filepath.Join(uploadsDir, filename)

	// Créer le fichier de sortie
	out, err := os.Create(outputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création fichier"})
		return
	}
	defer out.Close()

	// Encoder l'image selon le format
	switch format {
	case "png":
		// Garder le PNG pour préserver la transparence
		err = png.Encode(out, processedImg)
	case "gif":
		// Garder le GIF original si c'est un GIF
		file.Seek(0, 0)
		_, err = io.Copy(out, file)
	default:
		// Pour JPEG et autres, encoder en JPEG avec qualité 85
		err = jpeg.Encode(out, processedImg, &jpeg.Options{Quality: 85})
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde image"})
		return
	}

	// Obtenir la taille du fichier final
	fileInfo, _ := os.Stat(outputPath)
	finalSize := fileInfo.Size()

	// Retourner l'URL de l'image
	imageURL := fmt.Sprintf("/static/uploads/%s", filename)
	c.JSON(http.StatusOK, gin.H{
		"url":      imageURL,
		"filename": filename,
		"size":     finalSize,
		"format":   format,
	})
}
