// Package sirene provides a client for the INSEE SIRENE 3.11 API,
// which resolves a SIRET to its establishment record.
package sirene

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.insee.fr/api-sirene/3.11"
	apiKeyHeader   = "X-INSEE-Api-Key-Integration"
)

// Client defines the SIRENE operations used by the check pipeline.
type Client interface {
	// Etablissement fetches the establishment record for a 14-digit SIRET.
	Etablissement(ctx context.Context, siret string) (*Etablissement, error)
}

// Etablissement is the subset of the SIRENE establishment payload the
// pipeline consumes.
type Etablissement struct {
	Siret               string               `json:"siret"`
	DenominationUsuelle string               `json:"denominationUsuelleEtablissement"`
	Adresse             AdresseEtablissement `json:"adresseEtablissement"`
	UniteLegale         UniteLegale          `json:"uniteLegale"`
}

// AdresseEtablissement holds the raw SIRENE address sub-fields.
type AdresseEtablissement struct {
	NumeroVoie        string `json:"numeroVoieEtablissement"`
	TypeVoie          string `json:"typeVoieEtablissement"`
	LibelleVoie       string `json:"libelleVoieEtablissement"`
	ComplementAdresse string `json:"complementAdresseEtablissement"`
	CodePostal        string `json:"codePostalEtablissement"`
	LibelleCommune    string `json:"libelleCommuneEtablissement"`
	CodeCommune       string `json:"codeCommuneEtablissement"`
}

// UniteLegale holds the legal-entity name fields, including the
// personal-name fields used when the entity is a natural person.
type UniteLegale struct {
	DenominationUsuelle1 string `json:"denominationUsuelle1UniteLegale"`
	Denomination         string `json:"denominationUniteLegale"`
	Nom                  string `json:"nomUniteLegale"`
	PrenomUsuel          string `json:"prenomUsuelUniteLegale"`
	Prenom1              string `json:"prenom1UniteLegale"`
}

// LookupError reports a SIRENE request that did not yield a usable
// establishment: non-200 status or an unparseable payload. Status and
// Body carry the upstream diagnostics verbatim.
type LookupError struct {
	Status int
	Body   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("sirene: upstream status %d: %s", e.Status, e.Body)
}

// Option configures the SIRENE client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SIRENE client authenticating with the given API
// key. The default timeout bounds each lookup at 10 seconds.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Etablissement(ctx context.Context, siret string) (*Etablissement, error) {
	reqURL := fmt.Sprintf("%s/siret/%s", c.baseURL, siret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: build request")
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Etablissement *Etablissement `json:"etablissement"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &LookupError{Status: resp.StatusCode, Body: "unparseable payload: " + err.Error()}
	}
	if payload.Etablissement == nil {
		return nil, &LookupError{Status: resp.StatusCode, Body: "response has no etablissement field"}
	}

	return payload.Etablissement, nil
}
