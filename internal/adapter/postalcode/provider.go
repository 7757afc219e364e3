package postalcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// Provider fetches one postal code from a lookup service. A nil address with
// a nil error means the service does not know the postal code. Any error
// means the service could not answer.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, cep string) (*model.Address, error)
}

// StatusError reports an unexpected HTTP status from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
}

// normalizer turns a successful response body into an address, or nil for
// the provider's own not-found payload.
type normalizer func(status int, body []byte) (*model.Address, error)

// HTTPProvider queries a JSON lookup service at {base}/{cep}[suffix].
type HTTPProvider struct {
	name       string
	baseURL    *url.URL
	suffix     string
	httpClient *http.Client
	normalize  normalizer
}

func newHTTPProvider(name, baseURL, suffix string, client *http.Client, normalize normalizer) (*HTTPProvider, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", name, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("%s url must be absolute", name)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		name:       name,
		baseURL:    parsed,
		suffix:     suffix,
		httpClient: client,
		normalize:  normalize,
	}, nil
}

// NewViaCEP builds the ViaCEP provider. ViaCEP answers unknown postal codes
// with 200 and {"erro": true}.
func NewViaCEP(baseURL string, client *http.Client) (*HTTPProvider, error) {
	return newHTTPProvider("viacep", baseURL, "json", client, normalizeViaCEP)
}

// NewBrasilAPI builds the BrasilAPI provider. BrasilAPI answers unknown
// postal codes with 404.
func NewBrasilAPI(baseURL string, client *http.Client) (*HTTPProvider, error) {
	return newHTTPProvider("brasilapi", baseURL, "", client, normalizeBrasilAPI)
}

// Name identifies the provider in logs and metrics.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Fetch queries the provider for cep.
func (p *HTTPProvider) Fetch(ctx context.Context, cep string) (*model.Address, error) {
	endpoint := *p.baseURL
	endpoint.Path = path.Join(endpoint.Path, cep, p.suffix)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", p.name, err)
	}

	return p.normalize(resp.StatusCode, body)
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

func normalizeViaCEP(status int, body []byte) (*model.Address, error) {
	if status != http.StatusOK {
		return nil, StatusError{Provider: "viacep", StatusCode: status}
	}
	var data viaCEPResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("viacep: decode: %w", err)
	}
	// Older deployments send "erro": "true" as a string.
	switch v := data.Erro.(type) {
	case bool:
		if v {
			return nil, nil
		}
	case string:
		if strings.EqualFold(v, "true") {
			return nil, nil
		}
	}
	return &model.Address{
		PostalCode:   model.NormalizePostalCode(data.CEP),
		Street:       strings.TrimSpace(data.Logradouro),
		Complement:   strings.TrimSpace(data.Complemento),
		Neighborhood: strings.TrimSpace(data.Bairro),
		City:         strings.TrimSpace(data.Localidade),
		State:        strings.TrimSpace(data.UF),
	}, nil
}

type brasilAPIResponse struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

func normalizeBrasilAPI(status int, body []byte) (*model.Address, error) {
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, StatusError{Provider: "brasilapi", StatusCode: status}
	}
	var data brasilAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("brasilapi: decode: %w", err)
	}
	addr := &model.Address{
		PostalCode:   model.NormalizePostalCode(data.CEP),
		Street:       strings.TrimSpace(data.Street),
		Neighborhood: strings.TrimSpace(data.Neighborhood),
		City:         strings.TrimSpace(data.City),
		State:        strings.TrimSpace(data.State),
	}
	if addr.Street == "" && addr.City == "" {
		return nil, nil
	}
	return addr, nil
}
