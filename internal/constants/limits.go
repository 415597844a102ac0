package constants

const (
	// Maximum redirect hops followed for one candidate link
	MaxRedirectHops = 10

	// Total resolution attempts per candidate
	MaxResolveAttempts = 3

	// Concurrent candidate resolutions per request
	ResolveConcurrency = 10

	// Peer connections per torrent engine instance
	EngineConnections = 3

	// Candidates need strictly more peers than this
	MinPeers = 1

	// Safety limit for .torrent downloads
	MaxTorrentBytes int64 = 16 << 20

	// Number of candidates logged at debug level per source
	MaxCandidatesToLog = 5
)
