package fetcher

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAccounts(t *testing.T) {
	path := writeAccountsFile(t, `# pool accounts
alice:pw1:alice@mail.test:mailpw1:auth_token=abc; ct0=def
bob:pw2:bob@mail.test:mailpw2

carol:pw3:carol@mail.test:mailpw3:auth_token=xyz
`)

	accounts, err := LoadAccounts(path)
	if err != nil {
		t.Fatalf("LoadAccounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("len = %d, want 3", len(accounts))
	}

	if accounts[0].Username != "alice" || accounts[0].Cookies != "auth_token=abc; ct0=def" {
		t.Errorf("first account parsed wrong: %+v", accounts[0])
	}
	if !accounts[0].HasSession() {
		t.Error("account with cookies should have a session")
	}
	if accounts[1].HasSession() {
		t.Error("account without cookies should not have a session")
	}
}

func TestLoadAccountsMalformedLines(t *testing.T) {
	path := writeAccountsFile(t, `alice:pw1:alice@mail.test:mailpw1
notenoughfields
bob:pw2:bob@mail.test:mailpw2
`)

	accounts, err := LoadAccounts(path)
	if err == nil {
		t.Error("expected an error naming the malformed line")
	}
	if len(accounts) != 2 {
		t.Errorf("len = %d, want the 2 well-formed accounts", len(accounts))
	}
}

func TestLoadAccountsMissingFile(t *testing.T) {
	if _, err := LoadAccounts(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
