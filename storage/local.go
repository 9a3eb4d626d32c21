package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend writes files into a directory that the server exposes under URLPrefix.
type LocalBackend struct {
	Dir       string
	URLPrefix string
}

func NewLocalBackend(dir, urlPrefix string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalBackend{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (b *LocalBackend) Put(ctx context.Context, name string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(b.Dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return b.URLPrefix + "/" + name, nil
}

func (b *LocalBackend) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(b.Dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}
