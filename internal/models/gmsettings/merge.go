package gmsettings

// Merge fusionne le document stocké par dessus les valeurs par défaut.
// Fonction pure, indépendante du stockage: chaque sous-structure optionnelle
// est complétée indépendamment quand elle est absente ou partielle, un champ
// jamais renseigné ne doit pas apparaître vide aux appelants.
func Merge(stored, defaults WebsiteSettings) WebsiteSettings {
	merged := stored

	if isContactEmpty(merged.ContactInfo) {
		merged.ContactInfo = defaults.ContactInfo
	}
	if len(merged.ContactInfo.ContactFormEmails) == 0 {
		merged.ContactInfo.ContactFormEmails = defaults.ContactInfo.ContactFormEmails
	}

	if merged.AboutInfo.Values == nil {
		merged.AboutInfo.Values = defaults.AboutInfo.Values
	}

	if (merged.SocialLinks == SocialLinks{}) {
		merged.SocialLinks = defaults.SocialLinks
	}

	if merged.Logo.URL == "" {
		merged.Logo = defaults.Logo
	} else if merged.Logo.Alt == "" {
		merged.Logo.Alt = defaults.Logo.Alt
	}

	if merged.HeroImage.URL == "" {
		merged.HeroImage = defaults.HeroImage
	} else if merged.HeroImage.Alt == "" {
		merged.HeroImage.Alt = defaults.HeroImage.Alt
	}

	return merged
}

// isContactEmpty détecte un bloc contact jamais renseigné.
// ContactInfo contient un slice, la comparaison directe ne suffit pas.
func isContactEmpty(c ContactInfo) bool {
	return c.CompanyName == "" &&
		c.Address == (Address{}) &&
		c.Phone == (Phone{}) &&
		c.Email == "" &&
		len(c.ContactFormEmails) == 0 &&
		c.Hours == "" &&
		c.GoogleMapsURL == ""
}
