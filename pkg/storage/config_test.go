package storage_test

import (
	"strings"
	"testing"

	"github.com/lectio-edu/lectio/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "syllabi" {
		t.Errorf("container_name: got %s, want syllabi", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	t.Run("missing connection", func(t *testing.T) {
		cfg := storage.Config{ContainerName: "docs"}
		err := cfg.Finalize(nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "connection_string or account_url required") {
			t.Errorf("error = %q", err.Error())
		}
	})

	t.Run("account url alone is valid", func(t *testing.T) {
		cfg := storage.Config{AccountURL: "https://lectiostore.blob.core.windows.net"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("default container fills in", func(t *testing.T) {
		cfg := storage.Config{ConnectionString: "conn"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "syllabi",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "syllabi" {
		t.Errorf("container_name should remain syllabi, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}
