package ch

import (
	"context"
	"strings"
	"testing"
)

// TestOpen_BadDSN rejects an unparseable DSN before dialing
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open expected error for bad DSN")
	}
	if !strings.Contains(err.Error(), "parse dsn") {
		t.Fatalf("Open error should mention dsn parse, got: %v", err)
	}
}

// TestInsert_NoRows is a no op and never touches the connection
func TestInsert_NoRows(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	if err := cl.Insert(context.Background(), "some_table", nil); err != nil {
		t.Fatalf("Insert with no rows returned error: %v", err)
	}
	if err := cl.Insert(context.Background(), "some_table", [][]any{}); err != nil {
		t.Fatalf("Insert with empty rows returned error: %v", err)
	}
}

// TestBuildClientInfo tags the process with product metadata
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	info := BuildClientInfo("api", "v1.2.3")
	if len(info.Products) == 0 {
		t.Fatalf("BuildClientInfo returned no products")
	}

	got := map[string]string{}
	for _, p := range info.Products {
		got[p.Name] = p.Version
	}
	if got["clicktrail"] != "v1.2.3" {
		t.Fatalf("clicktrail tag = %q, want v1.2.3", got["clicktrail"])
	}
	if got["role"] != "api" {
		t.Fatalf("role = %q, want api", got["role"])
	}
	if got["go"] == "" {
		t.Fatalf("go version missing from client info")
	}
}
