// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"fmt"
	"log"
	"syscall"

	"golang.org/x/term"

	"github.com/saasradar/saasradar/internal/authhelp"
)

// HandleHashPassword reads a password interactively and prints its
// bcrypt hash for the API_PASSWORD_HASH setting.
func HandleHashPassword() {
	fmt.Print("Enter API password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("\nFailed to read password: %v", err)
	}
	fmt.Println()

	password := string(bytePassword)
	if err := authhelp.ValidatePasswordStrength(password); err != nil {
		log.Fatalf("Password is too weak: %v", err)
	}

	hash, err := authhelp.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
