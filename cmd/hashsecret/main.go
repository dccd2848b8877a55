// Command hashsecret prints a bcrypt hash for ADMIN_SECRET_HASH.
// The secret is read from the first line of stdin.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Dosada05/ranked-hc/auth"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		logger.Error("failed to read secret from stdin", slog.Any("error", err))
		os.Exit(1)
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		logger.Error("secret must not be empty")
		os.Exit(1)
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		logger.Error("failed to hash secret", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(hash)
}
