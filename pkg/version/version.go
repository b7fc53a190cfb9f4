package version

// Version and Commit are set at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
)
