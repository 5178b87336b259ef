package fetcher

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Account is one feed session account used by the gateway backend.
// Accounts come from a plain text file, one per line:
//
//	username:password:email:email_password[:cookies]
//
// Lines starting with # are skipped. Only accounts carrying a session
// cookie string are usable without an interactive login.
type Account struct {
	Username      string
	Password      string
	Email         string
	EmailPassword string
	Cookies       string
}

func (a Account) HasSession() bool {
	return a.Cookies != ""
}

// LoadAccounts parses an accounts file. Malformed lines are reported
// per line but do not abort loading.
func LoadAccounts(path string) ([]Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accounts file: %w", err)
	}
	defer f.Close()

	var accounts []Account
	var badLines []int

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 5)
		if len(parts) < 4 {
			badLines = append(badLines, lineNum)
			continue
		}

		acc := Account{
			Username:      parts[0],
			Password:      parts[1],
			Email:         parts[2],
			EmailPassword: parts[3],
		}
		if len(parts) == 5 {
			acc.Cookies = parts[4]
		}
		accounts = append(accounts, acc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	if len(badLines) > 0 {
		return accounts, fmt.Errorf("accounts file has %d malformed line(s), first at line %d", len(badLines), badLines[0])
	}
	return accounts, nil
}
