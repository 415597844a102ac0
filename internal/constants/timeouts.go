package constants

import "time"

const (
	// Timeout for one redirect hop
	RedirectTimeout = 5 * time.Second

	// Bounded wait for the torrent engine to enumerate files
	EngineTimeout = 5 * time.Second

	// HTTP timeout for one indexer query
	SearchTimeout = 15 * time.Second

	// HTTP timeout for downloading a .torrent file
	TorrentFetchTimeout = 10 * time.Second

	// HTTP timeout for title metadata lookups
	MetadataTimeout = 10 * time.Second

	// How long persisted title metadata stays valid
	MetadataStoreTTL = 7 * 24 * time.Hour

	// Pause between resolution attempts
	ResolveRetryDelay = 200 * time.Millisecond
)
