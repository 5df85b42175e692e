package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/trio/internal/config"
)

// CheckExisting returns an error if dir already holds a trio.yml
func CheckExisting(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, config.DefaultPath)); err == nil {
		return fmt.Errorf("project already initialized\n\nFound existing: %s\n\nUse 'trio init --force' to overwrite it", config.DefaultPath)
	}
	return nil
}
