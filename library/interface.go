package library

import (
	"context"
	"errors"

	"github.com/yhkl-dev/navisonic/domain"
)

var (
	// ErrUnsupportedSort is returned by GetAlbums for a sort outside AlbumSorts.
	ErrUnsupportedSort = errors.New("unsupported album sort")

	// ErrUnsupportedKind is returned for a favourite kind other than track, album or artist.
	ErrUnsupportedKind = errors.New("unsupported favourite kind")

	ErrNotFound = errors.New("not found")
)

// AlbumSort selects an album listing order.
type AlbumSort string

const (
	SortAZ             AlbumSort = "a-z"
	SortRecentlyAdded  AlbumSort = "recently-added"
	SortRecentlyPlayed AlbumSort = "recently-played"
	SortMostPlayed     AlbumSort = "most-played"
	SortRandom         AlbumSort = "random"
)

// AlbumSorts maps each supported sort to its getAlbumList2 type.
var AlbumSorts = map[AlbumSort]string{
	SortAZ:             "alphabeticalByName",
	SortRecentlyAdded:  "newest",
	SortRecentlyPlayed: "recent",
	SortMostPlayed:     "frequent",
	SortRandom:         "random",
}

// Kind discriminates favourite targets.
type Kind string

const (
	KindTrack  Kind = "track"
	KindAlbum  Kind = "album"
	KindArtist Kind = "artist"
)

// Library is everything the user interface can ask of the music server.
type Library interface {
	GetGenres(ctx context.Context) ([]domain.Genre, error)
	GetAlbumsByGenre(ctx context.Context, id string, size, offset int) ([]domain.Album, error)
	GetTracksByGenre(ctx context.Context, id string, size, offset int) ([]domain.Track, error)

	GetArtists(ctx context.Context) ([]domain.Artist, error)
	GetAlbums(ctx context.Context, sort AlbumSort, size, offset int) ([]domain.Album, error)
	GetArtistDetails(ctx context.Context, id string) (*domain.Artist, error)
	GetAlbumDetails(ctx context.Context, id string) (*domain.Album, error)

	GetPlaylists(ctx context.Context) ([]domain.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error)
	CreatePlaylist(ctx context.Context, name string) ([]domain.Playlist, error)
	EditPlaylist(ctx context.Context, id, name string) error
	DeletePlaylist(ctx context.Context, id string) error
	AddToPlaylist(ctx context.Context, id string, trackIDs ...string) error
	RemoveFromPlaylist(ctx context.Context, id string, index int) error

	GetRandomSongs(ctx context.Context) ([]domain.Track, error)

	GetFavourites(ctx context.Context) (*domain.Favourites, error)
	AddFavourite(ctx context.Context, id string, kind Kind) error
	RemoveFavourite(ctx context.Context, id string, kind Kind) error

	Search(ctx context.Context, query string) (*domain.SearchResult, error)

	GetRadioStations(ctx context.Context) ([]domain.RadioStation, error)
	AddRadioStation(ctx context.Context, title, url string) (*domain.RadioStation, error)
	UpdateRadioStation(ctx context.Context, item domain.RadioStation) (*domain.RadioStation, error)
	DeleteRadioStation(ctx context.Context, id string) error

	GetPodcasts(ctx context.Context) ([]domain.Podcast, error)
	GetPodcast(ctx context.Context, id string) (*domain.Podcast, error)
	RefreshPodcasts(ctx context.Context) error

	Scan(ctx context.Context) error
	Scrobble(ctx context.Context, id string) error
	DownloadURL(id string) string
}
