// scanner is used to scan a workspace for source files.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sansls.scanner")

// ignoreDir reports whether a directory is hidden (".git", ".cache", ...)
// and must not be descended into. The walk root is never ignored.
func ignoreDir(root, path string) bool {
	if path == root {
		return false
	}
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// Scan walks the entire subtree under root. Hidden directories are skipped
// entirely. Files for which match returns false are ignored; for the rest
// the skip predicate decides whether the file is up to date, and otherwise
// the file is read and handed to callback. Scan returns once all callbacks
// have completed.
func Scan(
	root string,
	match func(path string) bool,
	skip func(path string, info fs.FileInfo) bool,
	callback func(path string, document []byte),
) {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	// worker goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("read error: %s: %s", path, err)
				continue
			}
			callback(path, data)
		}
	}()

	log.Debugf("starting walk at %q", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk error: %s", err)
			return nil
		}

		if d.IsDir() {
			if ignoreDir(root, path) {
				log.Debugf("skipping %q", path)
				return fs.SkipDir
			}
			return nil
		}

		if !match(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if skip != nil && skip(path, info) {
			return nil
		}

		// enqueue for reading
		fileCh <- path
		return nil
	})
	if err != nil {
		log.Errorf("walk finished with error: %s", err)
	}

	// no more files to send
	close(fileCh)
	// wait for the worker to finish consuming and calling back
	wg.Wait()
}
