// Package background runs maintenance tasks outside of the request path.
package background

import (
	"context"
	"log"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// sweepGracePeriod protects freshly uploaded files that are not yet
// referenced by a post (upload happens before the createPost mutation).
const sweepGracePeriod = 24 * time.Hour

// PostImages lists the image URLs still referenced by stored posts.
type PostImages interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

// StartImageSweeper launches a goroutine that periodically deletes files in
// imageDir that no post references and that are older than the grace period.
// Closing stop ends the sweeper; the returned WaitGroup reports completion.
func StartImageSweeper(posts PostImages, imageDir string, interval time.Duration, stop <-chan struct{}) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := sweep(posts, imageDir); err != nil {
					log.Printf("image sweeper: %v", err)
				}
			}
		}
	}()

	return &wg
}

// sweep removes unreferenced, sufficiently old files from imageDir.
func sweep(posts PostImages, imageDir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	urls, err := posts.ImageURLs(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		// Stored values look like "images/<name>"; compare by base name.
		referenced[path.Base(u)] = true
	}

	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-sweepGracePeriod)
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		full := filepath.Join(imageDir, entry.Name())
		if err := os.Remove(full); err != nil {
			log.Printf("image sweeper: failed to remove %s: %v", full, err)
			continue
		}
		log.Printf("image sweeper: removed unreferenced image %s", entry.Name())
	}
	return nil
}
