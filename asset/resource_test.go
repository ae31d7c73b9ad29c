package asset

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewResource(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource")
	}
	if res.Name() != "crate" || res.Ext() != ".obj" {
		t.Fatalf("expected name crate and ext .obj; got %q and %q", res.Name(), res.Ext())
	}
}

func TestHttpResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/crate.obj" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	res, err := NewResource(server.URL+"/models/crate.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if !res.IsRemote() {
		t.Fatal("expected remote resource")
	}
	data, _ := io.ReadAll(res)
	if string(data) != "OK" {
		t.Fatalf("expected payload OK; got %q", data)
	}

	_, err = NewResource(server.URL+"/file-not-found.obj", nil)
	if !errors.Is(err, ErrFetchFailed) || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected a 404 fetch error; got %v", err)
	}
}

func TestRelativeResources(t *testing.T) {
	serverHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		switch r.URL.Path {
		case "/foo/scene.obj", "/foo/part.obj":
			w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	res1, err := NewResource(server.URL+"/foo/scene.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("part.obj", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	_, err := NewResource("gopher://digging.obj", nil)
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme; got %v", err)
	}
}

func mockResource(payload string) *Resource {
	return NewResourceFromStream("embedded.obj", strings.NewReader(payload))
}
