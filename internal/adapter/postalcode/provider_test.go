package postalcode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProvidersValidateURL(t *testing.T) {
	if _, err := NewViaCEP("://bad-url", nil); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewBrasilAPI("/relative", nil); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestViaCEPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/01310100/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","complemento":"até 610 - lado par","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json":
			_, _ = w.Write([]byte(`{"erro": true}`))
		case "/ws/88888888/json":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	p, err := NewViaCEP(srv.URL+"/ws", srv.Client())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	addr, err := p.Fetch(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if addr == nil || addr.PostalCode != "01310100" || addr.Street != "Avenida Paulista" || addr.City != "São Paulo" || addr.State != "SP" || addr.Neighborhood != "Bela Vista" {
		t.Fatalf("unexpected address %+v", addr)
	}

	for _, cep := range []string{"99999999", "88888888"} {
		addr, err = p.Fetch(context.Background(), cep)
		if err != nil || addr != nil {
			t.Fatalf("%s: expected not found, got %+v err=%v", cep, addr, err)
		}
	}

	_, err = p.Fetch(context.Background(), "00000000")
	var statusErr StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestBrasilAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cep/v1/01310100":
			_, _ = w.Write([]byte(`{"cep":"01310100","state":"SP","city":"São Paulo","neighborhood":"Bela Vista","street":"Avenida Paulista","service":"open-cep"}`))
		case "/api/cep/v1/77777777":
			_, _ = w.Write([]byte(`{"cep":"77777777","state":"","city":"","street":""}`))
		case "/api/cep/v1/66666666":
			_, _ = w.Write([]byte(`not json`))
		case "/api/cep/v1/55555555":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p, err := NewBrasilAPI(srv.URL+"/api/cep/v1", srv.Client())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	addr, err := p.Fetch(context.Background(), "01310100")
	if err != nil || addr == nil || addr.Street != "Avenida Paulista" {
		t.Fatalf("unexpected result %+v err=%v", addr, err)
	}

	for _, cep := range []string{"12345678", "77777777"} {
		addr, err = p.Fetch(context.Background(), cep)
		if err != nil || addr != nil {
			t.Fatalf("%s: expected not found, got %+v err=%v", cep, addr, err)
		}
	}

	for _, cep := range []string{"66666666", "55555555"} {
		if _, err := p.Fetch(context.Background(), cep); err == nil {
			t.Fatalf("%s: expected error", cep)
		}
	}
}
