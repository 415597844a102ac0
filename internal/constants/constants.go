// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "gostremiojackett.stremio.addon"
	AddonVersion     = "3.0.0"
	AddonName        = "GoStremioJackett"
	AddonDescription = "Movie & TV streams from Jackett indexers"
	AddonLogo        = "https://raw.githubusercontent.com/mikmcdanbyeee55/bitsearch/main/hyjackett.jpg"

	// Default configuration values
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 7000
	DefaultLogLevel   = "info"
	DefaultConfigFile = "config.yaml"
	EnvPrefix         = "GSJ"

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// Per-source rate limiting
	SourceRateLimit = 5 // requests per second
	SourceRateBurst = 2

	// Stream routing
	BingeGroupPrefix = "Jackett-Addon"
	TrackerPrefix    = "tracker:"
	DHTPrefix        = "dht:"
)

// DefaultCategories are the Torznab categories searched on every source:
// movies, TV and "other".
var DefaultCategories = []int{2000, 5000, 8000}

// VideoExtensions lists file suffixes accepted when picking an episode file.
var VideoExtensions = []string{".mkv", ".mp4", ".avi", ".flv"}
