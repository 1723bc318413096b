//go:build linux

package main

import (
	"github.com/tyhi/xivtools/process"
	"github.com/tyhi/xivtools/process_linux"
)

func openSystem() (process.System, error) {
	return process_linux.New(), nil
}
