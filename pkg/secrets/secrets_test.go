package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, dir, name, value string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), mode); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}
	return path
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("GIGACHAT_CREDENTIALS", "env-key")

	p := NewEnvProvider("GIGACHAT")
	ctx := context.Background()

	value, err := p.Lookup(ctx, NameCredentials)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if value != "env-key" {
		t.Errorf("expected env-key, got %q", value)
	}

	if _, err := p.Lookup(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unset variable, got %v", err)
	}
}

func TestFileProvider_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, NameCredentials, "  file-key\n", 0600)

	p, err := NewFileProvider(dir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer p.Close()
	ctx := context.Background()

	value, err := p.Lookup(ctx, NameCredentials)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if value != "file-key" {
		t.Errorf("expected trimmed file-key, got %q", value)
	}

	if _, err := p.Lookup(ctx, "absent"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for absent file, got %v", err)
	}
}

func TestFileProvider_RejectsLoosePermissions(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, NamePassword, "p", 0644)

	p, err := NewFileProvider(dir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer p.Close()

	if _, err := p.Lookup(context.Background(), NamePassword); err == nil || err == ErrNotFound {
		t.Errorf("expected a permissions error, got %v", err)
	}
}

func TestFileProvider_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFileProvider(dir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer p.Close()

	if _, err := p.Lookup(context.Background(), "../escape"); err == nil || err == ErrNotFound {
		t.Errorf("expected a traversal error, got %v", err)
	}
}

func TestFileProvider_RefreshDropsCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSecret(t, dir, NameAccessToken, "old", 0600)

	p, err := NewFileProvider(dir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer p.Close()
	ctx := context.Background()

	if value, _ := p.Lookup(ctx, NameAccessToken); value != "old" {
		t.Fatalf("expected old, got %q", value)
	}

	if err := os.WriteFile(path, []byte("new"), 0600); err != nil {
		t.Fatalf("failed to rewrite secret: %v", err)
	}

	// Cached until refreshed.
	if value, _ := p.Lookup(ctx, NameAccessToken); value != "old" {
		t.Errorf("expected cached old, got %q", value)
	}
	p.Refresh()
	if value, _ := p.Lookup(ctx, NameAccessToken); value != "new" {
		t.Errorf("expected new after refresh, got %q", value)
	}
}

func TestChain(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, NameCredentials, "from-file", 0600)

	file, err := NewFileProvider(dir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer file.Close()

	t.Setenv("GIGACHAT_CREDENTIALS", "from-env")
	env := NewEnvProvider("GIGACHAT")
	ctx := context.Background()

	// First provider in the chain wins.
	value, err := Chain(ctx, NameCredentials, file, env)
	if err != nil {
		t.Fatalf("chain lookup failed: %v", err)
	}
	if value != "from-file" {
		t.Errorf("expected from-file, got %q", value)
	}

	// Misses fall through.
	t.Setenv("GIGACHAT_PASSWORD", "env-pass")
	value, err = Chain(ctx, NamePassword, file, env)
	if err != nil {
		t.Fatalf("chain fallthrough failed: %v", err)
	}
	if value != "env-pass" {
		t.Errorf("expected env-pass, got %q", value)
	}

	if _, err := Chain(ctx, "nowhere", file, env); err != ErrNotFound {
		t.Errorf("expected ErrNotFound when every provider misses, got %v", err)
	}
}
