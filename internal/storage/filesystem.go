package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LabelStorage keeps a copy of every printed mailing label on disk, one file
// per request: <base>/<jurisdiction>/<id>/<index>.txt
type LabelStorage struct {
	basePath string
}

// NewLabelStorage creates a new label storage instance
func NewLabelStorage(basePath string) (*LabelStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create label directory: %w", err)
	}
	return &LabelStorage{basePath: basePath}, nil
}

// ErrBadJurisdiction is returned for a jurisdiction that is not a plain
// directory name.
var ErrBadJurisdiction = errors.New("invalid jurisdiction")

func (f *LabelStorage) path(jurisdiction string, id int64, index int) (string, error) {
	// jurisdiction comes straight from the URL
	if !filepath.IsLocal(jurisdiction) || filepath.Base(jurisdiction) != jurisdiction {
		return "", fmt.Errorf("%w: %q", ErrBadJurisdiction, jurisdiction)
	}
	return filepath.Join(f.basePath, jurisdiction, strconv.FormatInt(id, 10), strconv.Itoa(index)+".txt"), nil
}

// SaveLabel writes a rendered label and returns its path
func (f *LabelStorage) SaveLabel(jurisdiction string, id int64, index int, data []byte) (string, error) {
	p, err := f.path(jurisdiction, id, index)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("failed to create label directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save label: %w", err)
	}
	return p, nil
}

// DeleteLabel removes a saved label; a missing file is not an error
func (f *LabelStorage) DeleteLabel(jurisdiction string, id int64, index int) error {
	p, err := f.path(jurisdiction, id, index)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
