package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/strengthsmap/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":4000")
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret
//	-t int      session token validity, hours
//	-b int      bcrypt cost
//	-g string   Google OAuth client id
//	-k string   Google OAuth client secret
//	-r string   Google OAuth redirect URL
//	-f string   frontend URL for OAuth redirects
//	-o string   comma-separated CORS origins
//	-l string   log level
//
// Only the flags above are parsed; os.Args is filtered with flagx.FilterArgs
// so -c/-config and -env stay with their own loaders.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-g", "-k", "-r", "-f", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token_validity_duration (in hours)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.GoogleClientID, "g", config.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&config.GoogleClientSecret, "k", config.GoogleClientSecret, "Google OAuth client secret")
	fs.StringVar(&config.GoogleRedirectURL, "r", config.GoogleRedirectURL, "Google OAuth redirect URL")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend URL")

	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	config.CORSOrigins = splitOrigins(*origins)
}

func splitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
