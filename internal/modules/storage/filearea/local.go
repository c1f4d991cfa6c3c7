package filearea

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalArea struct {
	dir string
}

// NewLocalArea creates dir if needed.
func NewLocalArea(dir string) (*LocalArea, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalArea{dir: dir}, nil
}

func (a *LocalArea) Backend() string { return BackendLocal }

func (a *LocalArea) Dir() string { return a.dir }

func (a *LocalArea) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	name = SafeName(name)
	if name == "" {
		return ErrInvalidName
	}
	// write to a temp file first so a half-written upload never shows under its final name
	tmp, err := os.CreateTemp(a.dir, ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(a.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (a *LocalArea) Remove(_ context.Context, name string) error {
	name = SafeName(name)
	if name == "" {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(a.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (a *LocalArea) Locate(_ context.Context, name string) Location {
	name = SafeName(name)
	if name == "" {
		return Location{}
	}
	path := filepath.Join(a.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Location{}
	}
	return Location{Path: path}
}
