package gmseo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"gopalmetals/internal/models/gmcatalog"

	"github.com/rs/zerolog/log"
	stripmd "github.com/writeas/go-strip-markdown"
)

// Meta porte les balises SEO d'une page, injectées dans le head des templates
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	JSONLD      template.HTML
}

const maxDescriptionLength = 160

// Excerpt réduit un texte Markdown en description plate pour les meta tags
func Excerpt(markdown string) string {
	plain := strings.TrimSpace(stripmd.Strip(markdown))
	plain = strings.Join(strings.Fields(plain), " ")
	if len(plain) > maxDescriptionLength {
		plain = plain[:maxDescriptionLength-3] + "..."
	}
	return plain
}

// PageMeta construit les balises d'une page statique
func PageMeta(siteName, baseURL, title, description, path string) Meta {
	fullTitle := siteName
	if title != "" {
		fullTitle = fmt.Sprintf("%s | %s", title, siteName)
	}
	return Meta{
		Title:       fullTitle,
		Description: Excerpt(description),
		Canonical:   strings.TrimSuffix(baseURL, "/") + path,
	}
}

// ProductMeta construit les balises et le JSON-LD schema.org d'une fiche
// produit
func ProductMeta(siteName, baseURL string, product *gmcatalog.Product) Meta {
	base := strings.TrimSuffix(baseURL, "/")
	canonical := fmt.Sprintf("%s/products/%s", base, product.Slug)

	meta := Meta{
		Title:       fmt.Sprintf("%s | %s", product.Name, siteName),
		Description: Excerpt(product.Description),
		Canonical:   canonical,
	}
	if img := firstImage(product.Images); img != "" {
		meta.Image = absoluteURL(base, img)
	}

	ld := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        product.Name,
		"description": meta.Description,
		"url":         canonical,
		"brand": map[string]any{
			"@type": "Brand",
			"name":  siteName,
		},
	}
	if meta.Image != "" {
		ld["image"] = meta.Image
	}
	if product.Category.Name != "" {
		ld["category"] = product.Category.Name
	}
	if product.Materials != "" {
		ld["material"] = product.Materials
	}

	data, err := json.Marshal(ld)
	if err != nil {
		log.Error().Err(err).Str("product", product.Slug).Msg("Erreur génération JSON-LD")
		return meta
	}
	meta.JSONLD = template.HTML(fmt.Sprintf(`<script type="application/ld+json">%s</script>`, data))

	return meta
}

// firstImage extrait la première image d'une liste séparée par des virgules
func firstImage(images string) string {
	for _, img := range strings.Split(images, ",") {
		if img = strings.TrimSpace(img); img != "" {
			return img
		}
	}
	return ""
}

func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
