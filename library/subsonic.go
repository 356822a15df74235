package library

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/yhkl-dev/navisonic/domain"
	"github.com/yhkl-dev/navisonic/subsonic"
)

const (
	// RandomPlaylistID is never sent to the server; it is served from
	// getRandomSongs.
	RandomPlaylistID   = "random"
	RandomPlaylistName = "Random"

	// RandomSongCount is the batch size of GetRandomSongs.
	RandomSongCount = 200
)

// SubsonicLibrary implements Library against a Subsonic server.
type SubsonicLibrary struct {
	client *subsonic.Client
}

var _ Library = (*SubsonicLibrary)(nil)

// NewSubsonicLibrary binds client to creds; every request and derived URL
// is signed with whatever creds reports at that moment.
func NewSubsonicLibrary(client *subsonic.Client, creds subsonic.CredentialProvider) *SubsonicLibrary {
	return &SubsonicLibrary{
		client: client.WithCredentials(creds),
	}
}

func (s *SubsonicLibrary) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.client.GetGenres(ctx)
	if err != nil {
		return nil, err
	}
	return NormalizeGenres(genres), nil
}

func (s *SubsonicLibrary) GetAlbumsByGenre(ctx context.Context, id string, size, offset int) ([]domain.Album, error) {
	albums, err := s.client.GetAlbumList2(ctx, "byGenre", url.Values{
		"genre":  {id},
		"size":   {strconv.Itoa(size)},
		"offset": {strconv.Itoa(offset)},
	})
	if err != nil {
		return nil, err
	}
	return NormalizeAlbums(s.client, albums), nil
}

func (s *SubsonicLibrary) GetTracksByGenre(ctx context.Context, id string, size, offset int) ([]domain.Track, error) {
	songs, err := s.client.GetSongsByGenre(ctx, id, size, offset)
	if err != nil {
		return nil, err
	}
	return NormalizeTracks(s.client, songs), nil
}

// GetArtists flattens the alphabetical index into one list.
func (s *SubsonicLibrary) GetArtists(ctx context.Context) ([]domain.Artist, error) {
	indexes, err := s.client.GetArtists(ctx)
	if err != nil {
		return nil, err
	}
	artists := make([]domain.Artist, 0)
	for _, idx := range indexes {
		artists = append(artists, NormalizeArtists(s.client, idx.Artist)...)
	}
	return artists, nil
}

// GetAlbums rejects sorts outside AlbumSorts without contacting the server.
func (s *SubsonicLibrary) GetAlbums(ctx context.Context, sort AlbumSort, size, offset int) ([]domain.Album, error) {
	listType, ok := AlbumSorts[sort]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSort, sort)
	}
	albums, err := s.client.GetAlbumList2(ctx, listType, url.Values{
		"size":   {strconv.Itoa(size)},
		"offset": {strconv.Itoa(offset)},
	})
	if err != nil {
		return nil, err
	}
	return NormalizeAlbums(s.client, albums), nil
}

// GetArtistDetails fetches the artist and its extended info concurrently.
// Both must succeed; info keys win over artist keys.
func (s *SubsonicLibrary) GetArtistDetails(ctx context.Context, id string) (*domain.Artist, error) {
	var base, info subsonic.RawObject

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		base, err = s.client.GetArtist(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		info, err = s.client.GetArtistInfo2(ctx, id)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var raw subsonic.Artist
	if err := subsonic.Merge(base, info).Decode(&raw); err != nil {
		return nil, &subsonic.ProtocolError{
			Status:  subsonic.StatusMalformed,
			Message: "invalid artist payload: " + err.Error(),
			Err:     err,
		}
	}
	artist := NormalizeArtist(s.client, raw)
	return &artist, nil
}

func (s *SubsonicLibrary) GetAlbumDetails(ctx context.Context, id string) (*domain.Album, error) {
	raw, err := s.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	album := NormalizeAlbum(s.client, raw)
	return &album, nil
}

func (s *SubsonicLibrary) GetPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	playlists, err := s.client.GetPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	return NormalizePlaylists(s.client, playlists), nil
}

// GetPlaylist serves RandomPlaylistID locally from GetRandomSongs.
func (s *SubsonicLibrary) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	if id == RandomPlaylistID {
		tracks, err := s.GetRandomSongs(ctx)
		if err != nil {
			return nil, err
		}
		return &domain.Playlist{
			ID:     RandomPlaylistID,
			Name:   RandomPlaylistName,
			Tracks: tracks,
		}, nil
	}

	raw, err := s.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist := NormalizePlaylist(s.client, raw)
	return &playlist, nil
}

// CreatePlaylist returns the refreshed playlist list.
func (s *SubsonicLibrary) CreatePlaylist(ctx context.Context, name string) ([]domain.Playlist, error) {
	if err := s.client.CreatePlaylist(ctx, name); err != nil {
		return nil, err
	}
	log.Info().Str("name", name).Msg("Playlist created")
	return s.GetPlaylists(ctx)
}

func (s *SubsonicLibrary) EditPlaylist(ctx context.Context, id, name string) error {
	return s.client.UpdatePlaylist(ctx, id, url.Values{"name": {name}})
}

func (s *SubsonicLibrary) DeletePlaylist(ctx context.Context, id string) error {
	return s.client.DeletePlaylist(ctx, id)
}

func (s *SubsonicLibrary) AddToPlaylist(ctx context.Context, id string, trackIDs ...string) error {
	return s.client.UpdatePlaylist(ctx, id, url.Values{"songIdToAdd": trackIDs})
}

// RemoveFromPlaylist removes the track at the zero-based position index.
func (s *SubsonicLibrary) RemoveFromPlaylist(ctx context.Context, id string, index int) error {
	return s.client.UpdatePlaylist(ctx, id, url.Values{"songIndexToRemove": {strconv.Itoa(index)}})
}

func (s *SubsonicLibrary) GetRandomSongs(ctx context.Context) ([]domain.Track, error) {
	songs, err := s.client.GetRandomSongs(ctx, RandomSongCount)
	if err != nil {
		return nil, err
	}
	return NormalizeTracks(s.client, songs), nil
}

func (s *SubsonicLibrary) GetFavourites(ctx context.Context) (*domain.Favourites, error) {
	starred, err := s.client.GetStarred2(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Favourites{
		Albums:  NormalizeAlbums(s.client, starred.Album),
		Artists: NormalizeArtists(s.client, starred.Artist),
		Tracks:  NormalizeTracks(s.client, starred.Song),
	}, nil
}

func (s *SubsonicLibrary) AddFavourite(ctx context.Context, id string, kind Kind) error {
	params, err := favouriteParams(id, kind)
	if err != nil {
		return err
	}
	return s.client.Star(ctx, params)
}

func (s *SubsonicLibrary) RemoveFavourite(ctx context.Context, id string, kind Kind) error {
	params, err := favouriteParams(id, kind)
	if err != nil {
		return err
	}
	return s.client.Unstar(ctx, params)
}

// favouriteParams sets exactly one of id, albumId or artistId.
func favouriteParams(id string, kind Kind) (url.Values, error) {
	switch kind {
	case KindTrack:
		return url.Values{"id": {id}}, nil
	case KindAlbum:
		return url.Values{"albumId": {id}}, nil
	case KindArtist:
		return url.Values{"artistId": {id}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

func (s *SubsonicLibrary) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	res, err := s.client.Search3(ctx, query)
	if err != nil {
		return nil, err
	}
	return &domain.SearchResult{
		Artists: NormalizeArtists(s.client, res.Artist),
		Albums:  NormalizeAlbums(s.client, res.Album),
		Tracks:  NormalizeTracks(s.client, res.Song),
	}, nil
}

func (s *SubsonicLibrary) GetRadioStations(ctx context.Context) ([]domain.RadioStation, error) {
	stations, err := s.client.GetInternetRadioStations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RadioStation, len(stations))
	for i, st := range stations {
		out[i] = NormalizeRadioStation(st)
		out[i].Index = i + 1
	}
	return out, nil
}

// AddRadioStation creates the station and reads it back, since the server
// does not return the new id.
func (s *SubsonicLibrary) AddRadioStation(ctx context.Context, title, streamURL string) (*domain.RadioStation, error) {
	created := subsonic.InternetRadioStation{Name: title, StreamURL: streamURL}
	if err := s.client.CreateInternetRadioStation(ctx, created); err != nil {
		return nil, err
	}

	stations, err := s.client.GetInternetRadioStations(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(stations) - 1; i >= 0; i-- {
		if stations[i].Name == title && stations[i].StreamURL == streamURL {
			created = stations[i]
			break
		}
	}
	station := NormalizeRadioStation(created)
	if created.ID == "" {
		log.Warn().Str("title", title).Msg("Created radio station not found in listing")
		station.ID = ""
	}
	return &station, nil
}

func (s *SubsonicLibrary) UpdateRadioStation(ctx context.Context, item domain.RadioStation) (*domain.RadioStation, error) {
	raw := subsonic.InternetRadioStation{
		ID:          subsonic.ID(StationID(item.ID)),
		Name:        item.Title,
		StreamURL:   item.URL,
		HomePageURL: item.Description,
	}
	if err := s.client.UpdateInternetRadioStation(ctx, raw); err != nil {
		return nil, err
	}
	station := NormalizeRadioStation(raw)
	return &station, nil
}

func (s *SubsonicLibrary) DeleteRadioStation(ctx context.Context, id string) error {
	return s.client.DeleteInternetRadioStation(ctx, StationID(id))
}

func (s *SubsonicLibrary) GetPodcasts(ctx context.Context) ([]domain.Podcast, error) {
	channels, err := s.client.GetPodcasts(ctx, "", false)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Podcast, len(channels))
	for i, ch := range channels {
		out[i] = NormalizePodcast(s.client, ch)
	}
	return out, nil
}

// GetPodcast returns the first channel of the filtered listing.
func (s *SubsonicLibrary) GetPodcast(ctx context.Context, id string) (*domain.Podcast, error) {
	channels, err := s.client.GetPodcasts(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("podcast %q: %w", id, ErrNotFound)
	}
	podcast := NormalizePodcast(s.client, channels[0])
	return &podcast, nil
}

func (s *SubsonicLibrary) RefreshPodcasts(ctx context.Context) error {
	return s.client.RefreshPodcasts(ctx)
}

func (s *SubsonicLibrary) Scan(ctx context.Context) error {
	return s.client.StartScan(ctx)
}

func (s *SubsonicLibrary) Scrobble(ctx context.Context, id string) error {
	return s.client.Scrobble(ctx, id)
}

func (s *SubsonicLibrary) DownloadURL(id string) string {
	return s.client.DownloadURL(id)
}
