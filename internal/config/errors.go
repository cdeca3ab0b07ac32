package config

import "errors"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrCountInvalid       = errors.New("count must be positive")
	ErrWorkersInvalid     = errors.New("workers cannot be negative")
	ErrCorpusDBEmpty      = errors.New("corpus_db cannot be empty")
	ErrOutDirEmpty        = errors.New("out_dir cannot be empty")
)
