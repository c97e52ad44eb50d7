package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/hyprstrap/hyprstrap/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/hyprstrap/hyprstrap/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/hyprstrap/hyprstrap/internal/version.Date={{.Date}}
)
