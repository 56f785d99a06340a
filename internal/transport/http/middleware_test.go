package httptransport

import (
	"net/http/httptest"
	"testing"
)

func TestParseJackpotType(t *testing.T) {
	tests := []struct {
		v    string
		want string
		ok   bool
	}{
		{"MINOR", "MINOR", true},
		{"minor", "MINOR", true},
		{"Grand", "GRAND", true},
		{"MAJOR", "MAJOR", true},
		{"MEGA", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := parseJackpotType(tt.v)
		if ok != tt.ok || string(got) != tt.want {
			t.Fatalf("parseJackpotType(%q) = %q, %v, want %q, %v", tt.v, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePaginationBounds(t *testing.T) {
	tests := []struct {
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"/api/transactions", 50, 0},
		{"/api/transactions?limit=10&offset=5", 10, 5},
		{"/api/transactions?limit=0", 1, 0},
		{"/api/transactions?limit=9999", 500, 0},
		{"/api/transactions?offset=-3", 50, 0},
		{"/api/transactions?limit=abc", 50, 0},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		limit, offset := ParsePagination(r)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Fatalf("ParsePagination(%q) = %d, %d, want %d, %d", tt.url, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestCheckAdminAuth(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions", nil)
	if CheckAdminAuth(r, "secret") {
		t.Fatalf("expected auth to fail with no credentials")
	}

	r = httptest.NewRequest("GET", "/api/transactions", nil)
	r.Header.Set("X-Admin-Key", "secret")
	if !CheckAdminAuth(r, "secret") {
		t.Fatalf("expected X-Admin-Key header to pass")
	}

	r = httptest.NewRequest("GET", "/api/transactions", nil)
	r.Header.Set("Authorization", "Bearer secret")
	if !CheckAdminAuth(r, "secret") {
		t.Fatalf("expected bearer token to pass")
	}

	r = httptest.NewRequest("GET", "/api/transactions", nil)
	r.Header.Set("Authorization", "Bearer wrong")
	if CheckAdminAuth(r, "secret") {
		t.Fatalf("expected wrong bearer token to fail")
	}
}
