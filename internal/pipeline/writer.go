package pipeline

import (
	"os"
	"path/filepath"

	"astrie/internal/errors"
	"astrie/internal/logger"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every output to dir, creating it when missing.
func WriteFiles(outputs []*Output, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	for _, out := range outputs {
		path := filepath.Join(dir, out.Filename)

		if err := os.WriteFile(path, []byte(out.Content), filePerm); err != nil {
			return errors.Wrapf(err, "writing file %s", out.Filename)
		}

		logger.Logger.Infow("wrote", logger.FieldTarget, out.Target, logger.FieldFile, path)
	}

	return nil
}
