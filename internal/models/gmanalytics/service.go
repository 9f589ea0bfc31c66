package gmanalytics

import (
	"net/netip"
	"time"

	"github.com/oschwald/geoip2-golang/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service enregistre les visites et calcule les statistiques.
// La base est injectée par le constructeur, le reader GeoIP est optionnel.
type Service struct {
	db  *gorm.DB
	geo *geoip2.Reader
}

func NewService(db *gorm.DB, geoipPath string) *Service {
	s := &Service{db: db}

	if geoipPath != "" {
		reader, err := geoip2.Open(geoipPath)
		if err != nil {
			log.Warn().Err(err).Str("path", geoipPath).Msg("GeoIP indisponible, attribution géographique désactivée")
		} else {
			s.geo = reader
		}
	}

	return s
}

// RecordVisit enregistre une vue de page. Best-effort: toute erreur de
// stockage est loguée et retourne false, l'appelant ne doit jamais bloquer
// la requête principale dessus.
func (s *Service) RecordVisit(path, ipAddress, userAgentString, referrer string) bool {
	client := ParseUserAgent(userAgentString)
	country, city, region := s.lookupGeo(ipAddress)

	record := VisitRecord{
		IPAddress: ipAddress,
		Country:   country,
		City:      city,
		Region:    region,
		Browser:   client.Browser,
		Device:    client.Device,
		OS:        client.OS,
		Path:      path,
		Referrer:  referrer,
		VisitedAt: time.Now(),
	}

	if err := s.db.Create(&record).Error; err != nil {
		log.Error().Err(err).Str("path", path).Msg("Erreur enregistrement visite")
		return false
	}

	return true
}

// lookupGeo résout pays/ville/région depuis l'IP, "Unknown" sans base GeoIP
func (s *Service) lookupGeo(ipAddress string) (country, city, region string) {
	country, city, region = "Unknown", "Unknown", "Unknown"
	if s.geo == nil {
		return
	}

	addr, err := netip.ParseAddr(ipAddress)
	if err != nil {
		return
	}

	record, err := s.geo.City(addr)
	if err != nil {
		return
	}

	if name := record.Country.Names.English; name != "" {
		country = name
	}
	if name := record.City.Names.English; name != "" {
		city = name
	}
	if len(record.Subdivisions) > 0 {
		if name := record.Subdivisions[0].Names.English; name != "" {
			region = name
		}
	}
	return
}

// GetVisits retourne les visites de la fenêtre glissante, la plus récente
// en premier. En cas d'erreur on retourne une liste vide, jamais d'erreur:
// le rapport admin doit toujours s'afficher.
func (s *Service) GetVisits(days int) []VisitRecord {
	since := time.Now().AddDate(0, 0, -days)

	var visits []VisitRecord
	err := s.db.
		Where("visited_at >= ?", since).
		Order("visited_at DESC").
		Find(&visits).Error
	if err != nil {
		log.Error().Err(err).Int("days", days).Msg("Erreur récupération visites")
		return []VisitRecord{}
	}

	return visits
}

// GetSummary calcule les statistiques agrégées des `days` derniers jours:
// total des pages vues, visiteurs uniques par IP, top 5 des pages.
// En cas d'erreur on retourne un résumé à zéro, jamais d'erreur.
func (s *Service) GetSummary(days int) *Summary {
	since := time.Now().AddDate(0, 0, -days)

	summary := &Summary{TopPages: []PageStat{}}

	// 1. Total des pages vues
	err := s.db.Model(&VisitRecord{}).
		Where("visited_at >= ?", since).
		Count(&summary.TotalPageViews).Error
	if err != nil {
		log.Error().Err(err).Msg("Erreur comptage pages vues")
		return &Summary{TopPages: []PageStat{}}
	}

	// 2. Nombre de visiteurs uniques (IP distinctes)
	err = s.db.Model(&VisitRecord{}).
		Where("visited_at >= ?", since).
		Distinct("ip_address").
		Count(&summary.UniqueVisitors).Error
	if err != nil {
		log.Error().Err(err).Msg("Erreur comptage visiteurs uniques")
		return &Summary{TopPages: []PageStat{}}
	}

	// 3. Top des pages (5 pages les plus vues). Le tri secondaire par path
	// rend l'ordre stable quand deux pages ont le même nombre de vues.
	var topPages []PageStat
	err = s.db.Model(&VisitRecord{}).
		Select("path, COUNT(*) as views").
		Where("visited_at >= ?", since).
		Group("path").
		Order("views DESC, path ASC").
		Limit(5).
		Scan(&topPages).Error
	if err != nil {
		log.Error().Err(err).Msg("Erreur calcul top pages")
		return &Summary{TopPages: []PageStat{}}
	}
	if topPages != nil {
		summary.TopPages = topPages
	}

	return summary
}

// Close libère le reader GeoIP
func (s *Service) Close() {
	if s.geo != nil {
		s.geo.Close()
	}
}
