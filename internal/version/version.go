package version

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Version is overridden at build time with
// -ldflags "-X github.com/sammy-project/sammy-client-go/internal/version.Version=v1.2.3".
var Version = "0.1.0"

const product = "sammy-client-go"

func Parse() (semver.Version, error) {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("parse version %q: %v", Version, err)
	}
	return v, nil
}

// UserAgent falls back to the raw version string when it is not valid semver.
func UserAgent() string {
	v, err := Parse()
	if err != nil {
		return fmt.Sprintf("%s/%s", product, Version)
	}
	return fmt.Sprintf("%s/%s", product, v)
}
