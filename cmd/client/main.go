package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/go-field-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildInfo() string {
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).String()
}
