// Package archive moves previous story output out of the way before a
// story is generated again.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveStory moves storyDir to <parent>/archive/<name>-<timestamp> and
// returns the new path
func ArchiveStory(storyDir string) (string, error) {
	// Check if story directory exists
	if _, err := os.Stat(storyDir); os.IsNotExist(err) {
		return "", fmt.Errorf("story directory does not exist: %s", storyDir)
	}

	// Get parent directory and create archive path
	parentDir := filepath.Dir(storyDir)
	archiveDir := filepath.Join(parentDir, "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := filepath.Base(storyDir)
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, timestamp))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, timestamp))
	}

	// Rename story directory to archive
	if err := os.Rename(storyDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive story directory: %w", err)
	}

	return archivePath, nil
}
