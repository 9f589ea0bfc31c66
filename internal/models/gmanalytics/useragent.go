package gmanalytics

import (
	"strings"

	"github.com/mssola/useragent"
)

// ClientInfo contient les attributs dérivés du User-Agent
type ClientInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent dérive navigateur, OS et type d'appareil depuis le User-Agent.
// La classification ne peut pas échouer: tout ce qui n'est pas reconnu
// dégrade en "Unknown" / "Desktop".
func ParseUserAgent(uaString string) ClientInfo {
	info := ClientInfo{
		Browser: "Unknown",
		OS:      "Unknown",
		Device:  "Desktop",
	}
	if strings.TrimSpace(uaString) == "" {
		return info
	}

	ua := useragent.New(uaString)

	name, version := ua.Browser()
	if name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	osInfo := ua.OSInfo()
	if osInfo.Name != "" {
		info.OS = strings.TrimSpace(osInfo.Name + " " + osInfo.Version)
	}

	switch {
	case ua.Bot():
		info.Device = "Bot"
	case ua.Mobile():
		info.Device = "Mobile"
	default:
		if model := strings.TrimSpace(ua.Model()); model != "" {
			info.Device = model
		}
	}

	return info
}
