package subsonic

import (
	"context"
	"net/url"
	"strconv"
)

// One method per Subsonic endpoint. Each returns the raw records exactly as
// decoded; shaping them for callers is the library package's job.

func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var resp struct {
		Genres struct {
			Genre List[Genre] `json:"genre"`
		} `json:"genres"`
	}
	if err := c.Call(ctx, "getGenres", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres.Genre, nil
}

// GetAlbumList2 lists albums by listType; params carries size, offset and any
// type-specific filter such as genre.
func (c *Client) GetAlbumList2(ctx context.Context, listType string, params url.Values) ([]Album, error) {
	q := url.Values{"type": {listType}}
	for k, v := range params {
		q[k] = v
	}
	var resp struct {
		AlbumList2 struct {
			Album List[Album] `json:"album"`
		} `json:"albumList2"`
	}
	if err := c.Call(ctx, "getAlbumList2", q, &resp); err != nil {
		return nil, err
	}
	return resp.AlbumList2.Album, nil
}

func (c *Client) GetSongsByGenre(ctx context.Context, genre string, count, offset int) ([]Song, error) {
	q := url.Values{
		"genre":  {genre},
		"count":  {strconv.Itoa(count)},
		"offset": {strconv.Itoa(offset)},
	}
	var resp struct {
		SongsByGenre struct {
			Song List[Song] `json:"song"`
		} `json:"songsByGenre"`
	}
	if err := c.Call(ctx, "getSongsByGenre", q, &resp); err != nil {
		return nil, err
	}
	return resp.SongsByGenre.Song, nil
}

func (c *Client) GetArtists(ctx context.Context) ([]ArtistIndex, error) {
	var resp struct {
		Artists struct {
			Index List[ArtistIndex] `json:"index"`
		} `json:"artists"`
	}
	if err := c.Call(ctx, "getArtists", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Artists.Index, nil
}

// GetArtist returns the undecoded artist object so it can be merged with
// GetArtistInfo2 before decoding.
func (c *Client) GetArtist(ctx context.Context, id string) (RawObject, error) {
	var resp struct {
		Artist RawObject `json:"artist"`
	}
	if err := c.Call(ctx, "getArtist", url.Values{"id": {id}}, &resp); err != nil {
		return nil, err
	}
	return resp.Artist, nil
}

func (c *Client) GetArtistInfo2(ctx context.Context, id string) (RawObject, error) {
	var resp struct {
		ArtistInfo2 RawObject `json:"artistInfo2"`
	}
	if err := c.Call(ctx, "getArtistInfo2", url.Values{"id": {id}}, &resp); err != nil {
		return nil, err
	}
	return resp.ArtistInfo2, nil
}

func (c *Client) GetAlbum(ctx context.Context, id string) (Album, error) {
	var resp struct {
		Album Album `json:"album"`
	}
	if err := c.Call(ctx, "getAlbum", url.Values{"id": {id}}, &resp); err != nil {
		return Album{}, err
	}
	return resp.Album, nil
}

func (c *Client) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	var resp struct {
		Playlists struct {
			Playlist List[Playlist] `json:"playlist"`
		} `json:"playlists"`
	}
	if err := c.Call(ctx, "getPlaylists", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Playlists.Playlist, nil
}

func (c *Client) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	var resp struct {
		Playlist Playlist `json:"playlist"`
	}
	if err := c.Call(ctx, "getPlaylist", url.Values{"id": {id}}, &resp); err != nil {
		return Playlist{}, err
	}
	return resp.Playlist, nil
}

func (c *Client) CreatePlaylist(ctx context.Context, name string) error {
	return c.Call(ctx, "createPlaylist", url.Values{"name": {name}}, nil)
}

// UpdatePlaylist edits playlistID; params may repeat songIdToAdd and
// songIndexToRemove.
func (c *Client) UpdatePlaylist(ctx context.Context, playlistID string, params url.Values) error {
	q := url.Values{"playlistId": {playlistID}}
	for k, v := range params {
		q[k] = v
	}
	return c.Call(ctx, "updatePlaylist", q, nil)
}

func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	return c.Call(ctx, "deletePlaylist", url.Values{"id": {id}}, nil)
}

func (c *Client) GetRandomSongs(ctx context.Context, size int) ([]Song, error) {
	var resp struct {
		RandomSongs struct {
			Song List[Song] `json:"song"`
		} `json:"randomSongs"`
	}
	if err := c.Call(ctx, "getRandomSongs", url.Values{"size": {strconv.Itoa(size)}}, &resp); err != nil {
		return nil, err
	}
	return resp.RandomSongs.Song, nil
}

func (c *Client) GetStarred2(ctx context.Context) (Starred, error) {
	var resp struct {
		Starred2 Starred `json:"starred2"`
	}
	if err := c.Call(ctx, "getStarred2", nil, &resp); err != nil {
		return Starred{}, err
	}
	return resp.Starred2, nil
}

// Star marks the item named by params (id, albumId or artistId) as favourite.
func (c *Client) Star(ctx context.Context, params url.Values) error {
	return c.Call(ctx, "star", params, nil)
}

func (c *Client) Unstar(ctx context.Context, params url.Values) error {
	return c.Call(ctx, "unstar", params, nil)
}

func (c *Client) Search3(ctx context.Context, query string) (SearchResult, error) {
	var resp struct {
		SearchResult3 SearchResult `json:"searchResult3"`
	}
	if err := c.Call(ctx, "search3", url.Values{"query": {query}}, &resp); err != nil {
		return SearchResult{}, err
	}
	return resp.SearchResult3, nil
}

func (c *Client) GetInternetRadioStations(ctx context.Context) ([]InternetRadioStation, error) {
	var resp struct {
		InternetRadioStations struct {
			Station List[InternetRadioStation] `json:"internetRadioStation"`
		} `json:"internetRadioStations"`
	}
	if err := c.Call(ctx, "getInternetRadioStations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.InternetRadioStations.Station, nil
}

func (c *Client) CreateInternetRadioStation(ctx context.Context, st InternetRadioStation) error {
	return c.Call(ctx, "createInternetRadioStation", stationParams(st), nil)
}

func (c *Client) UpdateInternetRadioStation(ctx context.Context, st InternetRadioStation) error {
	q := stationParams(st)
	q.Set("id", string(st.ID))
	return c.Call(ctx, "updateInternetRadioStation", q, nil)
}

func (c *Client) DeleteInternetRadioStation(ctx context.Context, id string) error {
	return c.Call(ctx, "deleteInternetRadioStation", url.Values{"id": {id}}, nil)
}

func stationParams(st InternetRadioStation) url.Values {
	q := url.Values{
		"name":      {st.Name},
		"streamUrl": {st.StreamURL},
	}
	if st.HomePageURL != "" {
		q.Set("homepageUrl", st.HomePageURL)
	}
	return q
}

// GetPodcasts lists channels; a non-empty id filters to that channel.
func (c *Client) GetPodcasts(ctx context.Context, id string, includeEpisodes bool) ([]PodcastChannel, error) {
	q := url.Values{"includeEpisodes": {strconv.FormatBool(includeEpisodes)}}
	if id != "" {
		q.Set("id", id)
	}
	var resp struct {
		Podcasts struct {
			Channel List[PodcastChannel] `json:"channel"`
		} `json:"podcasts"`
	}
	if err := c.Call(ctx, "getPodcasts", q, &resp); err != nil {
		return nil, err
	}
	return resp.Podcasts.Channel, nil
}

func (c *Client) RefreshPodcasts(ctx context.Context) error {
	return c.Call(ctx, "refreshPodcasts", nil, nil)
}

func (c *Client) StartScan(ctx context.Context) error {
	return c.Call(ctx, "startScan", nil, nil)
}

func (c *Client) Scrobble(ctx context.Context, id string) error {
	return c.Call(ctx, "scrobble", url.Values{"id": {id}, "submission": {"true"}}, nil)
}
