// Package util holds the small HTTP politeness helpers the collectors
// share: proxy selection and robots.txt checking.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc returns the transport proxy function for collector traffic.
// Explicit proxy URLs win per scheme; with neither set, the standard
// environment variables apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
