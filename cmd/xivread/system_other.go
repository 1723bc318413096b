//go:build !windows && !linux

package main

import (
	"errors"

	"github.com/tyhi/xivtools/process"
)

func openSystem() (process.System, error) {
	return nil, errors.New("no live process backend for this platform")
}
