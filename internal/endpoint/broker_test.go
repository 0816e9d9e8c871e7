package endpoint

import (
	"context"
	"testing"

	"geostream/internal/accessor"
)

func jsonResponse(body string) accessor.Response {
	return accessor.Response{Status: 200, Body: []byte(body)}
}

func TestResolveTerrainAppendsLayerJSON(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`{"type":"TERRAIN","url":"https://assets.example.com/123","accessToken":"tok-1","attributions":[{"html":"<span>c</span>"}]}`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	r, err := b.Resolve(context.Background(), "https://api.example.com/v1/assets/123/endpoint")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Kind != Terrain {
		t.Fatalf("expected Terrain, got %v", r.Kind)
	}
	if r.URL != "https://assets.example.com/123/layer.json" {
		t.Fatalf("expected layer.json appended, got %q", r.URL)
	}
	if r.BearerToken != "tok-1" {
		t.Fatalf("expected bearer token carried through, got %q", r.BearerToken)
	}
	if len(r.Attributions) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(r.Attributions))
	}
}

func TestResolveThreeDTilesDoesNotAppendLayerJSON(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`{"type":"3DTILES","url":"https://assets.example.com/tileset.json","accessToken":"tok-2"}`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	r, err := b.Resolve(context.Background(), "https://api.example.com/v1/assets/456/endpoint")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.URL != "https://assets.example.com/tileset.json" {
		t.Fatalf("expected url unchanged, got %q", r.URL)
	}
}

func TestResolveCachesSecondCallMakesNoFurtherFetch(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`{"type":"TERRAIN","url":"https://assets.example.com/1","accessToken":"tok"}`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	ctx := context.Background()
	if _, err := b.Resolve(ctx, "https://api.example.com/endpoint"); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if _, err := b.Resolve(ctx, "https://api.example.com/endpoint"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if len(fake.Requests) != 1 {
		t.Fatalf("expected 1 underlying fetch, got %d", len(fake.Requests))
	}
}

func TestResolveUnknownTypeReturnsError(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`{"type":"UNKNOWN","url":"https://assets.example.com/1"}`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	if _, err := b.Resolve(context.Background(), "https://api.example.com/endpoint"); err == nil {
		t.Fatal("expected error for unsupported asset type")
	}
}

func TestResolveMalformedJSONReturnsError(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`not json`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	if _, err := b.Resolve(context.Background(), "https://api.example.com/endpoint"); err == nil {
		t.Fatal("expected error for malformed endpoint response")
	}
}

func TestRefreshBypassesCacheAndClearsRefreshingFlag(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{
		jsonResponse(`{"type":"TERRAIN","url":"https://assets.example.com/1","accessToken":"tok-old"}`),
		jsonResponse(`{"type":"TERRAIN","url":"https://assets.example.com/1","accessToken":"tok-new"}`),
	}}

	b, err := NewBroker(fake, Options{})
	if err != nil {
		t.Fatalf("NewBroker: %v", err)
	}

	ctx := context.Background()
	endpointURL := "https://api.example.com/endpoint"

	first, err := b.Resolve(ctx, endpointURL)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.BearerToken != "tok-old" {
		t.Fatalf("expected tok-old, got %q", first.BearerToken)
	}

	if b.IsRefreshing(endpointURL) {
		t.Fatal("should not be refreshing before Refresh is called")
	}

	refreshed, err := b.Refresh(ctx, endpointURL)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.BearerToken != "tok-new" {
		t.Fatalf("expected refreshed token tok-new, got %q", refreshed.BearerToken)
	}
	if b.IsRefreshing(endpointURL) {
		t.Fatal("refreshing flag should clear once Refresh returns")
	}

	cached, err := b.Resolve(ctx, endpointURL)
	if err != nil {
		t.Fatalf("Resolve after refresh: %v", err)
	}
	if cached.BearerToken != "tok-new" {
		t.Fatalf("expected cache updated with refreshed token, got %q", cached.BearerToken)
	}
}
