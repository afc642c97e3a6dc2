// Command admintoken prints a bearer token accepted by the admin routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/GlebRadaev/ordermart/pkg/auth"
)

func main() {
	secret := flag.String("s", os.Getenv("ADMIN_SECRET"), "admin token secret")
	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "admin secret is required (-s or ADMIN_SECRET)")
		os.Exit(2)
	}

	token, err := auth.NewJWTService(*secret).GenerateJWT(*subject, auth.RoleAdmin, time.Now().Add(*ttl))
	if err != nil {
		fmt.Fprintln(os.Stderr, "can't generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
