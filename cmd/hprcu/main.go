// hprcu is a mock of HPE's hprcu BIOS configuration utility for test rigs without
// ProLiant hardware.
//
// Usage:
//
//	hprcu -s [-f hprcu.xml] [-a]   dump the (canned) BIOS settings
//	hprcu -l [-f hprcu.xml] [-a]   apply a settings document (parse only)
//
// Exit codes:
//   - 0: success
//   - 1: the settings document could not be read, parsed or written
//   - 2: usage error (missing or conflicting mode flags)
package main

import (
	"os"

	bclog "github.com/honeybbq/biosconfig/internal/log"
	"github.com/honeybbq/biosconfig/internal/shim"
)

func main() {
	bclog.Configure(bclog.Config{Output: os.Stderr, Service: "hprcu"})
	os.Exit(shim.Main(os.Args[1:], os.Stdout, os.Stderr))
}
