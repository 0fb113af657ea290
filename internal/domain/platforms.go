package domain

// Identificadores das plataformas suportadas, usados como chave do
// registro de clientes e na identidade das métricas
const (
	PlatformMeta      = "meta"
	PlatformGoogleAds = "googleads"
	PlatformTikTok    = "tiktok"
	PlatformLinkedIn  = "linkedin"
	PlatformPinterest = "pinterest"
)

func KnownPlatforms() []string {
	return []string{
		PlatformMeta,
		PlatformGoogleAds,
		PlatformTikTok,
		PlatformLinkedIn,
		PlatformPinterest,
	}
}
