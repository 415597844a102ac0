package models

type Manifest struct {
	ID            string        `json:"id"`
	Version       string        `json:"version"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Types         []string      `json:"types"`
	Resources     []string      `json:"resources"`
	Catalogs      []Catalog     `json:"catalogs"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
	IDPrefixes    []string      `json:"idPrefixes,omitempty"`
	Logo          string        `json:"logo,omitempty"`
}

type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired,omitempty"`
}

type Catalog struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stream is one playable torrent entry as understood by Stremio.
type Stream struct {
	Name          string              `json:"name"`
	Type          MediaType           `json:"type"`
	InfoHash      string              `json:"infoHash"`
	FileIdx       int                 `json:"fileIdx"`
	Sources       []string            `json:"sources"`
	Title         string              `json:"title"`
	BehaviorHints StreamBehaviorHints `json:"behaviorHints"`
}

// StreamBehaviorHints groups episodes of one torrent and flags streams that
// need the player's transcoding layer.
type StreamBehaviorHints struct {
	BingeGroup  string `json:"bingeGroup,omitempty"`
	NotWebReady bool   `json:"notWebReady"`
}

// StreamResponse is the response format for stream endpoints.
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
