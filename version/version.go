package version

// Version is set at build time:
// go build -ldflags "-X github.com/gfscan/gfscan/version.Version=v0.1.0"
var Version string
