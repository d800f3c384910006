package pacycle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/stalexteam/pacycle/pkg/pacycle/util"
)

const (
	inputStateFilename  = "input"
	outputStateFilename = "output"
)

// IndexStore persists the last selected device index, one slot per device
// class, as plain decimal text under a single root directory. There is no
// locking: concurrent invocations race and the last writer wins.
type IndexStore struct {
	logger *zap.SugaredLogger
	root   string
}

// NewIndexStore creates a store rooted at the given directory. The
// directory is created lazily on the first write.
func NewIndexStore(logger *zap.SugaredLogger, root string) *IndexStore {
	return &IndexStore{
		logger: logger.Named("state"),
		root:   root,
	}
}

func (s *IndexStore) path(class DeviceClass) string {
	if class == ClassInput {
		return filepath.Join(s.root, inputStateFilename)
	}

	return filepath.Join(s.root, outputStateFilename)
}

// Read returns the persisted index for the class. A missing file or
// unparsable content reads as unset, never as an error.
func (s *IndexStore) Read(class DeviceClass) (uint32, bool) {
	data, err := os.ReadFile(s.path(class))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnw("Failed to read state file", "class", class, "error", err)
		}

		return 0, false
	}

	index, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		s.logger.Warnw("Unparsable state file content, treating as unset",
			"class", class,
			"content", strings.TrimSpace(string(data)))

		return 0, false
	}

	return uint32(index), true
}

// Write overwrites the persisted index for the class. The value goes
// through a temp file and a rename so a crash can't leave a half-written
// value behind.
func (s *IndexStore) Write(class DeviceClass, index uint32) error {
	if err := util.EnsureDirExists(s.root); err != nil {
		return err
	}

	path := s.path(class)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(strconv.FormatUint(uint64(index), 10)), 0o644); err != nil {
		return fmt.Errorf("write state file (%s): %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename state file (%s): %w", path, err)
	}

	s.logger.Debugw("Persisted device index", "class", class, "index", index)

	return nil
}
