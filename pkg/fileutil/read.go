package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// ReadFileWithLimit reads a file of at most limit bytes. A larger file yields
// an error marked with errors.ErrFileTooLarge, detected from the file size
// before anything is read and again while reading in case the file grows.
func ReadFileWithLimit(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, errors.Newf("invalid read limit %d", limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, tooLarge(info.Size(), limit)
	}

	return ReadAllWithLimit(f, limit)
}

// ReadAllWithLimit reads r to the end, failing with errors.ErrFileTooLarge
// once more than limit bytes arrive.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	if int64(len(data)) > limit {
		return nil, tooLarge(int64(len(data)), limit)
	}
	return data, nil
}

// CheckSize returns an errors.ErrFileTooLarge error when the file at path is
// larger than limit. It does not read the file.
func CheckSize(path string, limit int64) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "stat file")
	}
	if info.IsDir() {
		return 0, errors.Newf("%s is a directory", path)
	}
	if info.Size() > limit {
		return info.Size(), tooLarge(info.Size(), limit)
	}
	return info.Size(), nil
}

func tooLarge(size, limit int64) error {
	return errors.Wrapf(errors.ErrFileTooLarge, "%d bytes exceeds limit of %d", size, limit)
}
