package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/tyhi/xivtools/hexdump"
	"github.com/tyhi/xivtools/process"
)

func main() {
	nameFlag := flag.String("process", "ffxiv_dx11.exe", "Executable name to locate (case-sensitive)")
	moduleFlag := flag.Int("module", 0, "Module index to read relative to")
	offsetFlag := flag.String("offset", "0", "Offset from the module base (hex accepted with 0x prefix)")
	sizeFlag := flag.Uint("size", 64, "Number of bytes to read")
	flag.Parse()

	offset, err := strconv.ParseUint(*offsetFlag, 0, 64)
	if err != nil {
		fmt.Printf("Error parsing offset %q: %v\n", *offsetFlag, err)
		os.Exit(1)
	}

	sys, err := openSystem()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	proc, err := process.Locate(sys, *nameFlag)
	if err != nil {
		fmt.Printf("Error locating %q: %v\n", *nameFlag, err)
		os.Exit(1)
	}
	defer proc.Close()

	fmt.Printf("Located %s\n", proc.Name())
	for i, mod := range proc.Modules() {
		fmt.Printf("  [%2d] %s %s (%s)\n", i, mod.Base, mod.Name, mod.Size)
	}

	mod, err := proc.Module(*moduleFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	addr := mod.Base + process.ProcessMemoryAddress(offset)
	buf := make([]byte, *sizeFlag)
	n, err := proc.Read(addr, buf)
	if err != nil {
		fmt.Printf("Error reading %d bytes at %s: %v\n", *sizeFlag, addr, err)
		os.Exit(1)
	}
	if n < uint(*sizeFlag) {
		fmt.Printf("Short read: %d of %d bytes\n", n, *sizeFlag)
	}

	fmt.Print(hexdump.Basic(buf[:n], uint64(addr)))
}
