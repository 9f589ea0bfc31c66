package gmsite

import (
	"fmt"
	"log"
	"strings"

	"gopalmetals/internal/gormzerologger"
	"gopalmetals/internal/models/gmanalytics"
	"gopalmetals/internal/models/gmcaptchas"
	"gopalmetals/internal/models/gmcatalog"
	"gopalmetals/internal/models/gmconfig"
	"gopalmetals/internal/models/gmcontact"
	"gopalmetals/internal/models/gmimages"
	"gopalmetals/internal/models/gmmail"
	"gopalmetals/internal/models/gmsettings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	instance *Website
)

// Website rassemble la configuration, les bases et les services du site
type Website struct {
	Db            *gorm.DB
	AnalyticsDb   *gorm.DB
	Configuration *gmconfig.Config
	Captcha       *gmcaptchas.Captchas
	Analytics     *gmanalytics.Service
	Settings      *gmsettings.Store
	Catalog       *gmcatalog.Service
	Contact       *gmcontact.Service
	Mailer        *gmmail.Sender
	ThemeCSS      string
	Version       string
	BuildID       string
}

func GetInstance() *Website {
	if instance == nil {
		instance = &Website{}
	}
	return instance
}

func Init(config *gmconfig.Config, version string, buildid string) *Website {
	instance = &Website{
		Configuration: config,
		Version:       version,
		BuildID:       buildid,
	}
	instance.initDatabase()
	instance.initServices()
	instance.initCaptcha()
	instance.ThemeCSS = GenerateThemeCSS(config.Site.Theme)
	return instance
}

func (ws *Website) initCaptcha() {
	ws.Captcha = gmcaptchas.New(ws.Configuration.Database.Redis.Addr, ws.Configuration.Database.Redis.Db)
}

func (ws *Website) initDatabase() {
	// Créer le logger GORM avec Zerolog
	level := "warn"
	if ws.Configuration.Logger.Level == "debug" || !ws.Configuration.Production {
		level = "trace"
	}
	gormLogger := gormzerologger.New(level)

	db, err := openDatabase(ws.Configuration.Database.Db, ws.Configuration.Database.Path, ws.Configuration.Database.Dsn, gormLogger)
	if err != nil {
		log.Fatal(err, "Erreur connexion base de données:")
	}

	err = db.AutoMigrate(
		&gmcatalog.Category{},
		&gmcatalog.Product{},
		&gmcontact.Submission{},
		&gmsettings.Record{},
	)
	if err != nil {
		log.Fatal(err, "Erreur migration:")
	}

	ws.Db = db

	// Les visites peuvent vivre dans une base dédiée pour ne pas gonfler la
	// base principale, sinon elles partagent la connexion principale
	analyticsDb := db
	if ws.Configuration.Analytics.Db != "" {
		analyticsDb, err = openDatabase(ws.Configuration.Analytics.Db, ws.Configuration.Analytics.Path, ws.Configuration.Analytics.Dsn, gormLogger)
		if err != nil {
			log.Fatal(err, "Erreur connexion base analytics:")
		}
	}

	if err := analyticsDb.AutoMigrate(&gmanalytics.VisitRecord{}); err != nil {
		log.Fatal(err, "Erreur migration analytics:")
	}

	ws.AnalyticsDb = analyticsDb
}

func openDatabase(dbtype, path, dsn string, gormLogger *gormzerologger.GormZerologger) (*gorm.DB, error) {
	switch dbtype {
	case "sqlite":
		return gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: gormLogger,
		})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormLogger,
		})
	}
	return nil, fmt.Errorf("le type de database doit etre sqlite ou mysql")
}

func (ws *Website) initServices() {
	cfg := ws.Configuration

	ws.Settings = gmsettings.NewStore(ws.Db)
	ws.Catalog = gmcatalog.NewService(ws.Db)
	ws.Analytics = gmanalytics.NewService(ws.AnalyticsDb, cfg.Analytics.GeoIP)

	ws.Mailer = gmmail.New(gmmail.Config{
		Enabled:    cfg.Mail.Enabled,
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		User:       cfg.Mail.User,
		Pass:       cfg.Mail.Pass,
		From:       cfg.Mail.From,
		Recipients: cfg.Mail.Recipients,
	})

	ws.Contact = gmcontact.NewService(ws.Db, ws.Mailer, ws.Settings, cfg.Site.Name)

	ws.seedCatalog()
}

// seedCatalog remplit une base vierge avec une gamme de départ pour que le
// site soit visitable dès le premier lancement
func (ws *Website) seedCatalog() {
	var count int64
	ws.Db.Model(&gmcatalog.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []gmcatalog.Category{
		{Name: "Wire Mesh", Slug: "wire-mesh", Image: "/files/img/categories/wire-mesh.svg"},
		{Name: "Perforated Sheets", Slug: "perforated-sheets", Image: "/files/img/categories/perforated-sheets.svg"},
		{Name: "Gratings", Slug: "gratings", Image: "/files/img/categories/gratings.svg"},
	}
	for i := range categories {
		if err := ws.Catalog.CreateCategory(&categories[i]); err != nil {
			log.Printf("Erreur seed catégorie %s: %v", categories[i].Name, err)
			return
		}
	}

	products := []gmcatalog.Product{
		{
			Name:         "Stainless Steel Wire Mesh",
			Slug:         "stainless-steel-wire-mesh",
			Description:  "Woven stainless steel mesh for **filtration**, sieving and screening.\n\n- Plain and twill weave\n- Mesh count 2 to 500",
			CategoryID:   categories[0].ID,
			Featured:     true,
			Materials:    "SS 304, SS 316, SS 316L",
			Applications: "Filtration, Sieving, Screening",
			Thickness:    "0.025mm - 2mm wire dia",
		},
		{
			Name:        "GI Perforated Sheet",
			Slug:        "gi-perforated-sheet",
			Description: "Galvanised iron sheets with round, square or slotted perforations.",
			CategoryID:  categories[1].ID,
			Featured:    true,
			Materials:   "GI, MS, SS, Aluminium",
			Thickness:   "0.5mm - 6mm",
		},
	}
	for i := range products {
		if err := ws.Catalog.CreateProduct(&products[i]); err != nil {
			log.Printf("Erreur seed produit %s: %v", products[i].Name, err)
		}
	}
}

// GenerateThemeCSS génère le CSS pour un thème basé sur une couleur
func GenerateThemeCSS(colorName string) string {
	// Couleurs de base prédéfinies
	baseColors := map[string]string{
		"blue":   "#007bff",
		"red":    "#dc3545",
		"green":  "#28a745",
		"yellow": "#ffc107",
		"purple": "#6f42c1",
		"cyan":   "#17a2b8",
		"orange": "#fd7e14",
		"pink":   "#e83e8c",
		"gray":   "#6c757d",
		"grey":   "#6c757d",
		"black":  "#000000",
	}

	// Récupérer la couleur de base
	baseHex, exists := baseColors[strings.ToLower(colorName)]
	if !exists {
		// Si la couleur n'existe pas, on assume que c'est un hex
		if strings.HasPrefix(colorName, "#") {
			baseHex = colorName
		} else {
			baseHex = "#007bff" // Fallback sur blue
		}
	}

	baseColor := gmimages.HexToColor(baseHex)

	// Générer les variations
	primaryHover := baseColor.Darken(20)
	success := baseColor.Lighten(15)
	danger := baseColor.Darken(30)
	warning := baseColor.Lighten(40)
	info := baseColor.Darken(10)
	light := baseColor.Lighten(80)
	dark := baseColor.Darken(70)
	border := baseColor.Lighten(60)

	// Générer le CSS
	css := fmt.Sprintf(`:root {
 --primary-color: %s;
 --primary-hover: %s;
 --success-color: %s;
 --danger-color: %s;
 --warning-color: %s;
 --info-color: %s;
 --light-color: %s;
 --dark-color: %s;
 --border-color: %s;
 --shadow: 0 2px 10px rgba(%d,%d,%d,0.1);
 --shadow-hover: 0 8px 25px rgba(%d,%d,%d,0.15);
 --border-radius: 8px;
 --transition: all 0.3s ease;
 --gradient: linear-gradient(135deg, %s 0%%, %s 100%%);
}`,
		baseColor.ToHex(),
		primaryHover.ToHex(),
		success.ToHex(),
		danger.ToHex(),
		warning.ToHex(),
		info.ToHex(),
		light.ToHex(),
		dark.ToHex(),
		border.ToHex(),
		baseColor.R, baseColor.G, baseColor.B,
		baseColor.R, baseColor.G, baseColor.B,
		baseColor.ToHex(),
		primaryHover.ToHex(),
	)

	return css
}
