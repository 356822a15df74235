// Package domain holds the canonical entities handed to the user interface.
// They are plain values built fresh on every call; URL fields left empty are
// absent and never serialized.
package domain

// Genre is a library genre. Subsonic has no genre ids, so ID is the name.
type Genre struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumCount int    `json:"albumCount"`
	TrackCount int    `json:"trackCount"`
}

// Track represents a playable item with metadata
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"` // in seconds
	Favourite   bool   `json:"favourite"`
	TrackNumber *int   `json:"track,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumID     string `json:"albumId,omitempty"`
	Artist      string `json:"artist,omitempty"`
	ArtistID    string `json:"artistId,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

type Album struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Artist    string  `json:"artist"`
	ArtistID  string  `json:"artistId"`
	Year      int     `json:"year"` // 0 when unknown
	Favourite bool    `json:"favourite"`
	GenreID   string  `json:"genreId,omitempty"`
	Image     string  `json:"image,omitempty"`
	Tracks    []Track `json:"tracks"`
}

// Artist albums are ordered newest first. A similar artist carries its own
// similar list, whose entries have none.
type Artist struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	AlbumCount     int      `json:"albumCount"`
	Favourite      bool     `json:"favourite"`
	Image          string   `json:"image,omitempty"`
	Description    string   `json:"description,omitempty"`
	LastFmURL      string   `json:"lastFmUrl,omitempty"`
	MusicBrainzURL string   `json:"musicBrainzUrl,omitempty"`
	Albums         []Album  `json:"albums"`
	SimilarArtists []Artist `json:"similarArtist"`
}

type SearchResult struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Tracks  []Track  `json:"tracks"`
}

type Favourites struct {
	Albums  []Album  `json:"albums"`
	Artists []Artist `json:"artists"`
	Tracks  []Track  `json:"tracks"`
}

type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image,omitempty"`
	Tracks []Track `json:"tracks"`
}

// RadioStationIDPrefix keeps station ids from colliding with track ids.
const RadioStationIDPrefix = "radio-"

// RadioStation is an internet radio stream. Index is its 1-based display
// position and is only set when stations are listed.
type RadioStation struct {
	ID          string `json:"id"`
	Index       int    `json:"index,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// AsTrack returns the station in the shape the playback queue expects.
func (r RadioStation) AsTrack() Track {
	return Track{
		ID:     r.ID,
		Title:  r.Title,
		Artist: r.Description,
		URL:    r.URL,
	}
}

type Podcast struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Episodes    []Episode `json:"episodes"`
}

// Episode is a podcast episode in Track shape. TrackNumber counts down, so the
// oldest episode has the highest number.
type Episode struct {
	Track
	Playable    bool   `json:"playable"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
}
