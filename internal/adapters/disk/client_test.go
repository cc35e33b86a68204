package disk_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/disk"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func TestEnsureDatedFolderTreatsConflictAsSuccess(t *testing.T) {
	statuses := []int{http.StatusCreated, http.StatusConflict}
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.Header.Get("Authorization") != "OAuth secret" {
			t.Errorf("missing oauth header, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(statuses[call])
		call++
	}))
	defer server.Close()

	client := disk.NewClient(server.URL, "secret", "/shift-photos", zap.NewNop())
	ctx := context.Background()

	if err := client.EnsureDatedFolder(ctx, "2026-08-31"); err != nil {
		t.Fatalf("fresh folder: %v", err)
	}
	if err := client.EnsureDatedFolder(ctx, "2026-08-31"); err != nil {
		t.Fatalf("existing folder: %v", err)
	}
}

func TestEnsureDatedFolderUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := disk.NewClient(server.URL, "bad", "/shift-photos", zap.NewNop())
	err := client.EnsureDatedFolder(context.Background(), "2026-08-31")
	if !errors.Is(err, secondary.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestUploadPutsContentToIssuedURL(t *testing.T) {
	var uploaded []byte
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()

	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("overwrite") != "false" {
			t.Errorf("overwrite = %q, want false", r.URL.Query().Get("overwrite"))
		}
		json.NewEncoder(w).Encode(map[string]string{"href": server.URL + "/upload-target"})
	})
	mux.HandleFunc("/upload-target", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	client := disk.NewClient(server.URL, "secret", "/shift-photos", zap.NewNop())
	err := client.Upload(context.Background(), []byte("jpeg-bytes"), "T_7_01.jpg", "2026-08-31", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if string(uploaded) != "jpeg-bytes" {
		t.Errorf("uploaded = %q", uploaded)
	}
}

func TestUploadNameConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := disk.NewClient(server.URL, "secret", "/shift-photos", zap.NewNop())
	err := client.Upload(context.Background(), []byte("x"), "T_7_01.jpg", "2026-08-31", "image/jpeg")
	if !errors.Is(err, secondary.ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
}

func TestUploadForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := disk.NewClient(server.URL, "secret", "/shift-photos", zap.NewNop())
	err := client.Upload(context.Background(), []byte("x"), "T_7_01.jpg", "2026-08-31", "image/jpeg")
	if !errors.Is(err, secondary.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPublishLinkReturnsPublicURL(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()

	mux.HandleFunc("/resources/publish", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/resources", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("path") != "/shift-photos/2026-08-31" {
			t.Errorf("path = %q", r.URL.Query().Get("path"))
		}
		json.NewEncoder(w).Encode(map[string]string{"public_url": "https://disk.example/public/abc"})
	})

	client := disk.NewClient(server.URL, "secret", "/shift-photos", zap.NewNop())
	link, err := client.PublishLink(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("PublishLink failed: %v", err)
	}
	if link != "https://disk.example/public/abc" {
		t.Errorf("link = %q", link)
	}
}
