package ports

import "net/http"

// HTTPClient executes requests against the CARTO SQL API.
// Both a plain *http.Client and the token-refreshing client returned by
// oauth2.Config.Client satisfy it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
