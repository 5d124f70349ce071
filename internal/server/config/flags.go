package config

import (
	"flag"
	"os"

	"github.com/logit-team/logit/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address (e.g., "127.0.0.1:6379")
//	-s string   JWT HMAC secret key
//	-g string   GitHub API base URL
//
// os.Args is first filtered to only the flags handled here, avoiding
// collisions with flags defined by other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.GithubAPIBaseURL, "g", config.GithubAPIBaseURL, "GitHub API base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
