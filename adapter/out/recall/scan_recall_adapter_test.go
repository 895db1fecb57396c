package recall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"scan_server/core/domain"
)

func newFeedChecker(t *testing.T, handler http.HandlerFunc) *HTTPChecker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPChecker(&HTTPCheckerConfig{BaseURL: server.URL, Client: server.Client()})
}

func TestHTTPCheckerRecalledProduct(t *testing.T) {
	checker := newFeedChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recalls/4902430735063" {
			t.Errorf("path = %q, want /recalls/4902430735063", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recalled":true,"reason":"undeclared milk","agency":"FDA","date":"2026-05-01"}`))
	})

	info, err := checker.Check(context.Background(), &domain.MergedProduct{Barcode: "4902430735063"})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if info == nil || !info.Recalled {
		t.Fatalf("info = %+v, want recalled", info)
	}
	if info.Reason != "undeclared milk" || info.Agency != "FDA" {
		t.Errorf("info = %+v, want reason and agency from feed", info)
	}
}

func TestHTTPCheckerNoRecall(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404 means no recall on file",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "explicit recalled false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"recalled":false}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := newFeedChecker(t, tt.handler)
			info, err := checker.Check(context.Background(), &domain.MergedProduct{Barcode: "12345678"})
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if info != nil {
				t.Errorf("info = %+v, want nil", info)
			}
		})
	}
}

func TestHTTPCheckerServerError(t *testing.T) {
	checker := newFeedChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := checker.Check(context.Background(), &domain.MergedProduct{Barcode: "12345678"}); err == nil {
		t.Fatal("Check() error = nil, want error on 5xx")
	}
}

func TestNoopCheckerAlwaysClean(t *testing.T) {
	info, err := NewNoopChecker().Check(context.Background(), &domain.MergedProduct{Barcode: "12345678"})
	if err != nil || info != nil {
		t.Errorf("Check() = (%+v, %v), want (nil, nil)", info, err)
	}
}
