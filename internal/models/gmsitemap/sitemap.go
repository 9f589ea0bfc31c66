package gmsitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopalmetals/internal/models/gmcatalog"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// URLSet représente le sitemap XML complet
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL représente une entrée du sitemap
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// staticPages sont les pages publiques toujours présentes dans le sitemap
var staticPages = []URL{
	{Loc: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Loc: "/about", ChangeFreq: "monthly", Priority: "0.7"},
	{Loc: "/contact", ChangeFreq: "monthly", Priority: "0.7"},
	{Loc: "/products", ChangeFreq: "weekly", Priority: "0.9"},
}

// Service génère le sitemap depuis le catalogue et le garde en cache.
// Le cache est invalidé à chaque écriture du catalogue et régénéré par
// un cron quotidien.
type Service struct {
	catalog *gmcatalog.Service
	baseURL string
	cron    *cron.Cron

	mu     sync.RWMutex
	cached []byte
}

func NewService(catalog *gmcatalog.Service, baseURL string) *Service {
	s := &Service{
		catalog: catalog,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	s.cron = setupRefreshCron(s)
	return s
}

func setupRefreshCron(s *Service) *cron.Cron {
	c := cron.New()

	// Régénérer tous les jours à 3h du matin
	c.AddFunc("0 3 * * *", func() {
		s.Invalidate()
		if _, err := s.XML(); err != nil {
			log.Error().Err(err).Msg("Erreur régénération sitemap")
		} else {
			log.Info().Msg("Sitemap régénéré")
		}
	})

	c.Start()
	return c
}

// XML retourne le sitemap sérialisé, depuis le cache si disponible
func (s *Service) XML() ([]byte, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	output, err := s.generate()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = output
	s.mu.Unlock()

	return output, nil
}

// Invalidate purge le cache, à appeler après toute écriture du catalogue
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *Service) generate() ([]byte, error) {
	urlset := URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]URL, 0, len(staticPages)),
	}

	now := time.Now().Format("2006-01-02")
	for _, page := range staticPages {
		page.Loc = s.baseURL + page.Loc
		page.LastMod = now
		urlset.URLs = append(urlset.URLs, page)
	}

	categories, err := s.catalog.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("erreur récupération catégories: %w", err)
	}
	for _, category := range categories {
		urlset.URLs = append(urlset.URLs, URL{
			Loc:        fmt.Sprintf("%s/products/category/%s", s.baseURL, category.Slug),
			LastMod:    category.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	products, err := s.catalog.ListProducts(gmcatalog.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("erreur récupération produits: %w", err)
	}
	for _, product := range products {
		urlset.URLs = append(urlset.URLs, URL{
			Loc:        fmt.Sprintf("%s/products/%s", s.baseURL, product.Slug),
			LastMod:    product.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	output, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

// RobotsTxt retourne le contenu de robots.txt, pointant vers le sitemap
func (s *Service) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /static/uploads/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + s.baseURL + "/sitemap.xml\n")
	return b.String()
}

// Stop arrête le cron de régénération
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
