// Package version хранит сведения о сборке, подставляемые через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/catalog/internal/version.version=v1.0.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build — сведения о сборке.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current возвращает сведения о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// GetVersion возвращает только версию.
func GetVersion() string { return version }

func (b Build) String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", b.Version, b.Commit, b.Date)
}

// String возвращает сведения о текущей сборке одной строкой.
func String() string {
	return Current().String()
}
