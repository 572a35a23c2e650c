package main

import (
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-dataset-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildInfo returns the linker-provided build data, "N/A" where unset.
func buildInfo() models.AppBuildInfo {
	info := models.AppBuildInfo{
		BuildVersion: buildVersion,
		BuildDate:    buildDate,
		BuildCommit:  buildCommit,
	}
	for _, field := range []*string{&info.BuildVersion, &info.BuildDate, &info.BuildCommit} {
		if *field == "" {
			*field = "N/A"
		}
	}
	return info
}

func printBuildInfo(w io.Writer) {
	info := buildInfo()

	fmt.Fprintf(w, "Build version: %s\n", info.BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", info.BuildCommit)
}
