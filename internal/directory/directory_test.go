package directory_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/hh"
)

const dictionariesBody = `{
	"currency": [
		{"code": "RUR", "rate": 1},
		{"code": "USD", "rate": 0.012}
	],
	"vacancy_search_order": [
		{"id": "relevance", "name": "По соответствию"},
		{"id": "publication_time", "name": "По дате"},
		{"id": "distance", "name": "По удалённости"}
	]
}`

const areasBody = `[
	{"id": "113", "name": "Россия", "areas": [
		{"id": "1", "name": "Москва", "areas": []},
		{"id": "1679", "name": "Пермский край", "areas": [
			{"id": "72", "name": "Пермь", "areas": []}
		]}
	]},
	{"id": "5", "name": "Украина", "areas": [
		{"id": "115", "name": "Киев", "areas": []}
	]}
]`

func loadDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dictionaries":
			w.Write([]byte(dictionariesBody))
		case "/areas":
			w.Write([]byte(areasBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := hh.NewClient(srv.URL, "test", 5*time.Second)
	d, err := directory.Load(context.Background(), c)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return d
}

func TestLoad_Rates(t *testing.T) {
	d := loadDirectory(t)
	rates := d.Rates()
	if rates["RUR"] != 1 || rates["USD"] != 0.012 {
		t.Errorf("rates = %v", rates)
	}
}

func TestLoad_ExcludesDistanceOrder(t *testing.T) {
	d := loadDirectory(t)
	orders := d.SortOrders()
	if _, ok := orders["По удалённости"]; ok {
		t.Error("distance order must not appear in the vocabulary")
	}
	if orders["По соответствию"] != "relevance" {
		t.Errorf("orders = %v", orders)
	}
}

func TestResolveRegion_CaseInsensitive(t *testing.T) {
	d := loadDirectory(t)
	id, ok := d.ResolveRegion("москва")
	if !ok || id != "1" {
		t.Errorf("ResolveRegion(москва) = %q, %v", id, ok)
	}
	if id, ok := d.ResolveRegion("  Пермь "); !ok || id != "72" {
		t.Errorf("ResolveRegion(Пермь) = %q, %v", id, ok)
	}
}

func TestResolveRegion_Unknown(t *testing.T) {
	d := loadDirectory(t)
	if _, ok := d.ResolveRegion("Atlantis"); ok {
		t.Error("unknown region must not resolve")
	}
}

func TestDomestic_LimitedToCountryTree(t *testing.T) {
	d := loadDirectory(t)
	for _, id := range []string{"113", "1", "1679", "72"} {
		if !d.Domestic(id) {
			t.Errorf("Domestic(%s) = false, want true", id)
		}
	}
	// Other countries are loaded into neither map.
	for _, id := range []string{"5", "115", "9999"} {
		if d.Domestic(id) {
			t.Errorf("Domestic(%s) = true, want false", id)
		}
	}
}

func TestLoad_FailureWrapsErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := hh.NewClient(srv.URL, "test", 5*time.Second)
	_, err := directory.Load(context.Background(), c)
	if !errors.Is(err, directory.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
