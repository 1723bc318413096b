//go:build windows

package main

import (
	"github.com/tyhi/xivtools/process"
	"github.com/tyhi/xivtools/process_windows"
)

func openSystem() (process.System, error) {
	return process_windows.New(), nil
}
