package tool

import (
	"github.com/charmbracelet/log"
)

// DefaultLogger is the process-wide logger. Level is set from the -log flag
// at startup; until then it stays at the library default.
var DefaultLogger = log.Default()

// InitLogger applies the shared output format. Caller reporting stays on so
// dropped-event logs point at the gate that dropped them.
func InitLogger() {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
}
