package version

// Value is overridden at build time:
//
//	go build -ldflags "-X job-board/internal/version.Value=v1.2.3" ./cmd/job-board
var Value = "dev"
