package version

var (
	// Version is the producer version written into every product.
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the version with its commit and build time.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
