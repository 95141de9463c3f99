package config

import (
	"flag"
	"os"
	"time"

	"github.com/mbelyaev/postboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-p int      reset token validity, minutes
//	-l string   reset link base URL
//	-m string   SMTP address (host:port)
//	-f string   sender address for outbound email
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-p", "-l", "-m", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	resetTokenValidityDuration := fs.Int("p", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")

	fs.StringVar(&config.ResetLinkBaseURL, "l", config.ResetLinkBaseURL, "reset link base URL")
	fs.StringVar(&config.SMTPAddr, "m", config.SMTPAddr, "SMTP address (host:port)")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "sender address for outbound email")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetTokenValidityDuration) * time.Minute
}
