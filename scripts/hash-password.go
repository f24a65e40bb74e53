// One-off: go run scripts/hash-password.go <password>
// Prints the Argon2id PHC hash for seeding accounts by hand.
package main

import (
	"fmt"
	"os"

	"github.com/coinboard/coinboard/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-password <password>")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
