package config

// Values injected at build time via ldflags. EmbeddedTMDBKey is only a
// default; environment variables and the config file override it.
//
// Build with:
//   go build -ldflags "-X 'github.com/wherewatch/wherewatch/internal/config.EmbeddedTMDBKey=xxx' \
//                      -X 'github.com/wherewatch/wherewatch/internal/config.Version=1.2.0'"
var (
	EmbeddedTMDBKey string
	Version         = "dev"
)
