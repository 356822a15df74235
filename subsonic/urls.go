package subsonic

import (
	"net/url"
	"strconv"
)

const (
	// CoverArtSize is the thumbnail edge requested for cover art, in pixels.
	CoverArtSize = 300

	// StreamFormat asks the server to stream the original file untouched.
	StreamFormat = "raw"
)

// URL builders are pure functions of the id and the bound credentials. They
// return "" for an empty id so derived fields stay absent.

func (c *Client) StreamURL(id string) string {
	if id == "" {
		return ""
	}
	return c.buildURL("stream", url.Values{"id": {id}, "format": {StreamFormat}})
}

func (c *Client) CoverArtURL(id string) string {
	if id == "" {
		return ""
	}
	return c.buildURL("getCoverArt", url.Values{"id": {id}, "size": {strconv.Itoa(CoverArtSize)}})
}

func (c *Client) DownloadURL(id string) string {
	if id == "" {
		return ""
	}
	return c.buildURL("download", url.Values{"id": {id}})
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	return BuildURL(c.Credentials(), c.clientID, c.apiVersion, endpoint, params)
}
