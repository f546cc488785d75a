package source

import "errors"

var (
	// ErrUnknownCategory indicates a manifest or template key referenced a
	// category outside the three fixed partitions.
	ErrUnknownCategory = errors.New("unknown source category")

	// ErrCategoryReadFailed indicates listing a category directory failed for
	// a reason other than the directory being absent.
	ErrCategoryReadFailed = errors.New("source category read failed")

	// ErrFileReadFailed indicates reading a source file failed.
	ErrFileReadFailed = errors.New("source file read failed")
)
