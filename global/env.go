package global

import (
	"github.com/notefield/notebook-service/pkg/fileurl"
)

// Version information, injected at build time.
var (
	Version   string = "1.0.0"
	GitTag    string = ""
	BuildTime string = ""
)

var (
	// ROOT is the directory the binary runs from.
	ROOT          string
	Name          string = "Notebook Service"
	WebClientName string = "Web"
)

func init() {
	filename := fileurl.GetExePath()
	ROOT = filename + "/"
}
