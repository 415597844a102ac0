package models

import "fmt"

// MediaType is the Stremio content type of a request.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Valid reports whether t is a supported media type.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeSeries
}

// StreamRequest identifies what the player asked streams for.
// Season and Episode are only meaningful when HasEpisode is set; season 0 holds specials.
type StreamRequest struct {
	TitleID    string
	MediaType  MediaType
	Season     int
	Episode    int
	HasEpisode bool
}

func (r StreamRequest) String() string {
	if r.MediaType == MediaTypeSeries && r.HasEpisode {
		return fmt.Sprintf("%s %s S%02dE%02d", r.MediaType, r.TitleID, r.Season, r.Episode)
	}
	return fmt.Sprintf("%s %s", r.MediaType, r.TitleID)
}

// TitleMeta is the display name and release year of a title. Year is 0 when unknown.
type TitleMeta struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

// Candidate is an unresolved search result from one indexer source.
type Candidate struct {
	Tracker   string
	Category  string
	Title     string
	Seeders   int
	Peers     int
	Link      string
	MagnetURI string
	SourceID  string
}

// URI returns the link to resolve, preferring the magnet URI.
func (c Candidate) URI() string {
	if c.MagnetURI != "" {
		return c.MagnetURI
	}
	return c.Link
}

// TorrentFile is one file inside a torrent.
type TorrentFile struct {
	Name   string
	Length int64
}

// ParsedTorrent is the metadata resolved from a magnet URI or a .torrent file.
type ParsedTorrent struct {
	// InfoHash is the lower-case 40 hex char identity of the torrent.
	InfoHash     string
	Name         string
	Length       int64
	Files        []TorrentFile
	AnnounceList []string
}

// TotalLength returns Length, or the sum of the file lengths when Length is unknown.
func (p *ParsedTorrent) TotalLength() int64 {
	if p.Length > 0 {
		return p.Length
	}
	var total int64
	for _, f := range p.Files {
		total += f.Length
	}
	return total
}
