package library

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/yhkl-dev/navisonic/domain"
	"github.com/yhkl-dev/navisonic/subsonic"
)

const (
	// UntitledPlaylist names playlists the server returns without a name.
	UntitledPlaylist = "(Untitled)"

	// EpisodeCompleted is the status of a downloaded, playable episode.
	EpisodeCompleted = "completed"

	musicBrainzArtistURL = "https://musicbrainz.org/artist/"
)

var anchorPattern = regexp.MustCompile(`(?is)<a\b[^>]*>.*?</a>`)

// URLBuilder derives stream and cover-art URLs. *subsonic.Client implements it.
type URLBuilder interface {
	StreamURL(id string) string
	CoverArtURL(id string) string
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// StripAnchors removes <a> elements together with the text they enclose.
func StripAnchors(s string) string {
	return anchorPattern.ReplaceAllString(s, "")
}

func NormalizeTrack(u URLBuilder, s subsonic.Song) domain.Track {
	t := domain.Track{
		ID:        string(s.ID),
		Title:     s.Title,
		Duration:  max(intOr(s.Duration, 0), 0),
		Favourite: bool(s.Starred),
		Album:     s.Album,
		AlbumID:   string(s.AlbumID),
		Artist:    s.Artist,
		ArtistID:  string(s.ArtistID),
		Image:     u.CoverArtURL(string(s.CoverArt)),
		URL:       u.StreamURL(string(s.ID)),
	}
	if s.Track != nil {
		n := *s.Track
		t.TrackNumber = &n
	}
	return t
}

func NormalizeTracks(u URLBuilder, songs []subsonic.Song) []domain.Track {
	out := make([]domain.Track, len(songs))
	for i, s := range songs {
		out[i] = NormalizeTrack(u, s)
	}
	return out
}

// NormalizeAlbum keeps the server's track order.
func NormalizeAlbum(u URLBuilder, a subsonic.Album) domain.Album {
	name := a.Name
	if name == "" {
		name = a.Title
	}
	return domain.Album{
		ID:        string(a.ID),
		Name:      name,
		Artist:    a.Artist,
		ArtistID:  string(a.ArtistID),
		Year:      intOr(a.Year, 0),
		Favourite: bool(a.Starred),
		GenreID:   a.Genre,
		Image:     u.CoverArtURL(string(a.CoverArt)),
		Tracks:    NormalizeTracks(u, a.Song),
	}
}

func NormalizeAlbums(u URLBuilder, albums []subsonic.Album) []domain.Album {
	out := make([]domain.Album, len(albums))
	for i, a := range albums {
		out[i] = NormalizeAlbum(u, a)
	}
	return out
}

// NormalizeArtist sorts albums newest first (stable). Similar artists are
// normalized together with their own similar list, which stops there.
func NormalizeArtist(u URLBuilder, a subsonic.Artist) domain.Artist {
	return normalizeArtist(u, a, 2)
}

func normalizeArtist(u URLBuilder, a subsonic.Artist, depth int) domain.Artist {
	albums := NormalizeAlbums(u, a.Album)
	slices.SortStableFunc(albums, func(x, y domain.Album) int {
		return cmp.Compare(y.Year, x.Year)
	})

	out := domain.Artist{
		ID:          string(a.ID),
		Name:        a.Name,
		AlbumCount:  max(intOr(a.AlbumCount, 0), 0),
		Favourite:   bool(a.Starred),
		Image:       u.CoverArtURL(string(a.CoverArt)),
		Description: StripAnchors(a.Biography),
		LastFmURL:   a.LastFmURL,
		Albums:      albums,
	}
	out.SimilarArtists = make([]domain.Artist, 0, len(a.SimilarArtist))
	if depth > 0 {
		for _, sim := range a.SimilarArtist {
			out.SimilarArtists = append(out.SimilarArtists, normalizeArtist(u, sim, depth-1))
		}
	}
	if a.MusicBrainzID != "" {
		out.MusicBrainzURL = musicBrainzArtistURL + a.MusicBrainzID
	}
	return out
}

func NormalizeArtists(u URLBuilder, artists []subsonic.Artist) []domain.Artist {
	out := make([]domain.Artist, len(artists))
	for i, a := range artists {
		out[i] = NormalizeArtist(u, a)
	}
	return out
}

// NormalizeGenres sorts by album count, highest first, keeping server order
// among equal counts.
func NormalizeGenres(genres []subsonic.Genre) []domain.Genre {
	out := make([]domain.Genre, len(genres))
	for i, g := range genres {
		out[i] = domain.Genre{
			ID:         g.Value,
			Name:       g.Value,
			AlbumCount: intOr(g.AlbumCount, 0),
			TrackCount: intOr(g.SongCount, 0),
		}
	}
	slices.SortStableFunc(out, func(x, y domain.Genre) int {
		return cmp.Compare(y.AlbumCount, x.AlbumCount)
	})
	return out
}

// NormalizePlaylist takes the image from the first track, if any.
func NormalizePlaylist(u URLBuilder, p subsonic.Playlist) domain.Playlist {
	out := domain.Playlist{
		ID:     string(p.ID),
		Name:   p.Name,
		Tracks: NormalizeTracks(u, p.Entry),
	}
	if out.Name == "" {
		out.Name = UntitledPlaylist
	}
	if len(out.Tracks) > 0 {
		out.Image = out.Tracks[0].Image
	}
	return out
}

func NormalizePlaylists(u URLBuilder, playlists []subsonic.Playlist) []domain.Playlist {
	out := make([]domain.Playlist, len(playlists))
	for i, p := range playlists {
		out[i] = NormalizePlaylist(u, p)
	}
	return out
}

func NormalizeRadioStation(st subsonic.InternetRadioStation) domain.RadioStation {
	return domain.RadioStation{
		ID:          domain.RadioStationIDPrefix + string(st.ID),
		Title:       st.Name,
		Description: st.HomePageURL,
		URL:         st.StreamURL,
	}
}

// StationID strips the display prefix from a station id.
func StationID(id string) string {
	return strings.TrimPrefix(id, domain.RadioStationIDPrefix)
}

// NormalizePodcast numbers episodes in reverse: with n episodes the first one
// in server order (the oldest) is n and the last is 1.
func NormalizePodcast(u URLBuilder, ch subsonic.PodcastChannel) domain.Podcast {
	n := len(ch.Episode)
	episodes := make([]domain.Episode, n)
	for i, ep := range ch.Episode {
		num := n - i
		episodes[i] = domain.Episode{
			Track: domain.Track{
				ID:          string(ep.ID),
				Title:       ep.Title,
				Duration:    max(intOr(ep.Duration, 0), 0),
				TrackNumber: &num,
				Album:       ch.Title,
				Artist:      ep.Artist,
				Image:       u.CoverArtURL(string(ep.CoverArt)),
				URL:         u.StreamURL(string(ep.StreamID)),
			},
			Playable:    ep.Status == EpisodeCompleted,
			Status:      ep.Status,
			Description: ep.Description,
			PublishDate: ep.PublishDate,
		}
	}
	image := u.CoverArtURL(string(ch.CoverArt))
	if image == "" {
		image = ch.OriginalImageURL
	}
	return domain.Podcast{
		ID:          string(ch.ID),
		Name:        ch.Title,
		Description: ch.Description,
		Image:       image,
		Episodes:    episodes,
	}
}
