// Package citations bridges actions to a companion reference-manager
// application. The bridge is strictly fire-and-forget: the engine never
// consumes a result and failures never surface past this package.
package citations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"quill/internal/logger"
)

// Manager routes a citation search to the external reference manager.
type Manager interface {
	SearchForCitation(query string)
}

// HTTPManager hits a local reference-manager bridge endpoint with the query.
// The response is discarded.
type HTTPManager struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPManager(endpoint string) *HTTPManager {
	return &HTTPManager{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *HTTPManager) SearchForCitation(query string) {
	query = strings.TrimSpace(query)
	if query == "" || m.Endpoint == "" {
		return
	}
	go func() {
		form := url.Values{"query": {query}}
		resp, err := m.Client.PostForm(m.Endpoint, form)
		if err != nil {
			logger.Log.Printf("[Citations] search request failed: %v", err)
			return
		}
		resp.Body.Close()
	}()
}

// Noop drops every query, for hosts with no reference manager configured.
type Noop struct{}

func (Noop) SearchForCitation(string) {}
