package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Disk writes archived files into a local directory.
type Disk struct {
	baseDir string
}

func NewDisk(baseDir string) *Disk {
	return &Disk{baseDir: baseDir}
}

func (d *Disk) Store(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare archive dir: %w", err)
	}
	dst := filepath.Join(d.baseDir, filepath.Base(name))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return dst, nil
}
