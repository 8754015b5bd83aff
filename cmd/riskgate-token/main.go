// Command riskgate-token mints a signed bearer token for local testing
//
//	riskgate-token -sub svc-batcher -ttl 1h
//
// the secret and issuer default to the same development values the API
// falls back to, so a freshly minted token works against a local server
// with no configuration
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"riskgate/internal/platform/config"
)

func main() {
	var (
		sub    = flag.String("sub", "svc-batcher", "subject claim")
		ttl    = flag.Duration("ttl", time.Hour, "token lifetime")
		secret = flag.String("secret", "", "signing secret (defaults to AUTH_JWT_SECRET)")
		issuer = flag.String("issuer", "", "issuer claim (defaults to AUTH_JWT_ISSUER)")
	)
	flag.Parse()

	authCfg := config.New().Prefix("AUTH_")
	if *secret == "" {
		*secret = authCfg.MayString("JWT_SECRET", "dev-secret-change-in-production")
	}
	if *issuer == "" {
		*issuer = authCfg.MayString("JWT_ISSUER", "risk-platform")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *sub,
		"iss": *issuer,
		"iat": now.Unix(),
		"exp": now.Add(*ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
