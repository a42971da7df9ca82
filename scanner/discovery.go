package scanner

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"

	"github.com/photomap/photomapbackend/media"
)

// EnumerateImages walks root depth-first and returns the absolute paths of
// all regular files with a recognized image extension, in natural sort
// order. a missing or unreadable root is not an error: it yields an empty
// result and a logged warning so the remaining roots still get scanned
func EnumerateImages(root string) []string {
	info, err := os.Stat(root)
	if err != nil {
		log.Printf("scanner: warning: cannot access scan root %s: %v", root, err)
		return nil
	}
	if !info.IsDir() {
		log.Printf("scanner: warning: scan root %s is not a directory", root)
		return nil
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entry: log, skip, keep walking siblings
			log.Printf("scanner: error accessing %s: %v", path, err)
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !media.IsSupportedImage(name) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		log.Printf("scanner: walk of %s ended early: %v", root, walkErr)
	}

	natsort.Sort(files)
	return files
}
