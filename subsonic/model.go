package subsonic

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Raw wire records. Every field is optional: servers differ in what they
// send, and normalization decides the defaults.

// ID accepts both JSON strings and numbers; older servers send numeric ids.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = ID(n.String())
	return nil
}

// Marker is a presence flag such as "starred". Absent, null, false, zero and
// empty string are false; anything else is true.
type Marker bool

func (m *Marker) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "", "null", "false", "0", `""`:
		*m = false
	default:
		*m = true
	}
	return nil
}

// List decodes either an array, a single object (servers that convert from
// XML collapse one-element lists) or null.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(b, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// Response is the common part of the "subsonic-response" wrapper.
type Response struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Type          string `json:"type"`
	ServerVersion string `json:"serverVersion"`
	OpenSubsonic  bool   `json:"openSubsonic"`
	Error         *Error `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Song struct {
	ID       ID     `json:"id"`
	Parent   ID     `json:"parent"`
	Title    string `json:"title"`
	Album    string `json:"album"`
	AlbumID  ID     `json:"albumId"`
	Artist   string `json:"artist"`
	ArtistID ID     `json:"artistId"`
	Duration *int   `json:"duration"` // in seconds
	Track    *int   `json:"track"`
	Year     *int   `json:"year"`
	Genre    string `json:"genre"`
	CoverArt ID     `json:"coverArt"`
	Starred  Marker `json:"starred"`
	Suffix   string `json:"suffix"`
	BitRate  *int   `json:"bitRate"`
	Path     string `json:"path"`
}

type Album struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"` // getAlbumList (non-ID3) uses title
	Artist    string     `json:"artist"`
	ArtistID  ID         `json:"artistId"`
	Year      *int       `json:"year"`
	Genre     string     `json:"genre"`
	CoverArt  ID         `json:"coverArt"`
	SongCount *int       `json:"songCount"`
	Duration  *int       `json:"duration"`
	Starred   Marker     `json:"starred"`
	Song      List[Song] `json:"song"`
}

// Artist is the merged shape of getArtist and getArtistInfo2.
type Artist struct {
	ID             ID           `json:"id"`
	Name           string       `json:"name"`
	CoverArt       ID           `json:"coverArt"`
	ArtistImageURL string       `json:"artistImageUrl"`
	AlbumCount     *int         `json:"albumCount"`
	Starred        Marker       `json:"starred"`
	Album          List[Album]  `json:"album"`
	Biography      string       `json:"biography"`
	MusicBrainzID  string       `json:"musicBrainzId"`
	LastFmURL      string       `json:"lastFmUrl"`
	SimilarArtist  List[Artist] `json:"similarArtist"`
}

type ArtistIndex struct {
	Name   string       `json:"name"`
	Artist List[Artist] `json:"artist"`
}

type Genre struct {
	Value      string `json:"value"`
	AlbumCount *int   `json:"albumCount"`
	SongCount  *int   `json:"songCount"`
}

type Playlist struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Comment   string     `json:"comment"`
	Owner     string     `json:"owner"`
	Public    bool       `json:"public"`
	SongCount *int       `json:"songCount"`
	CoverArt  ID         `json:"coverArt"`
	Entry     List[Song] `json:"entry"`
}

type Starred struct {
	Artist List[Artist] `json:"artist"`
	Album  List[Album]  `json:"album"`
	Song   List[Song]   `json:"song"`
}

type SearchResult struct {
	Artist List[Artist] `json:"artist"`
	Album  List[Album]  `json:"album"`
	Song   List[Song]   `json:"song"`
}

type InternetRadioStation struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	StreamURL   string `json:"streamUrl"`
	HomePageURL string `json:"homePageUrl"`
}

type PodcastChannel struct {
	ID               ID                   `json:"id"`
	URL              string               `json:"url"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	CoverArt         ID                   `json:"coverArt"`
	OriginalImageURL string               `json:"originalImageUrl"`
	Status           string               `json:"status"`
	Episode          List[PodcastEpisode] `json:"episode"`
}

type PodcastEpisode struct {
	ID          ID     `json:"id"`
	StreamID    ID     `json:"streamId"`
	ChannelID   ID     `json:"channelId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishDate string `json:"publishDate"`
	Status      string `json:"status"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Duration    *int   `json:"duration"`
	CoverArt    ID     `json:"coverArt"`
}

// RawObject is an undecoded JSON object, used where two payloads are merged
// key by key before decoding.
type RawObject map[string]json.RawMessage

// Merge returns a new object holding base's keys overwritten by overlay's.
func Merge(base, overlay RawObject) RawObject {
	out := make(RawObject, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Decode decodes the object into v.
func (o RawObject) Decode(v any) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
