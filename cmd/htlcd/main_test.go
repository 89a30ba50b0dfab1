package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/htlc"
)

func runCmd(t testing.TB, run func(in io.Reader, out io.Writer, args []string) error, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(strings.NewReader(""), &out, args); err != nil {
		t.Fatalf("cannot run command %v: %+v", args, err)
	}
	return out.String()
}

func keyAddress(t testing.TB, keyPath string) htlc.Address {
	t.Helper()
	key, err := readKey(keyPath)
	if err != nil {
		t.Fatalf("cannot read key: %s", err)
	}
	return key.PublicKey().Address()
}

func TestEscrowLifecycle(t *testing.T) {
	dir, err := ioutil.TempDir("", "htlcd")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(dir)

	home := filepath.Join(dir, "home")
	aliceKey := filepath.Join(dir, "alice.key")
	bobKey := filepath.Join(dir, "bob.key")
	runCmd(t, cmdKeygen, "-key", aliceKey)
	runCmd(t, cmdKeygen, "-key", bobKey)
	alice, bob := keyAddress(t, aliceKey), keyAddress(t, bobKey)

	addrs := runCmd(t, cmdKeyaddr, "-key", aliceKey)
	if !strings.HasPrefix(addrs, alice.String()+"\n") {
		t.Fatalf("unexpected keyaddr output: %q", addrs)
	}

	genesis := fmt.Sprintf(`{
		"chain_id": "local-chain",
		"app_state": {
			"cash": [{"address": %q, "coins": [{"whole": 1, "ticker": "MINA"}]}],
			"escrow": [{"backend": "native"}]
		}
	}`, alice.String())
	genesisPath := filepath.Join(dir, "genesis.json")
	if err := ioutil.WriteFile(genesisPath, []byte(genesis), 0600); err != nil {
		t.Fatalf("cannot write genesis: %s", err)
	}
	runCmd(t, cmdInit, "-home", home, "-genesis", genesisPath)

	var secret struct {
		Secret   string `json:"secret"`
		Hashlock string `json:"hashlock"`
	}
	raw := runCmd(t, cmdSecret, "-secret", strings.Repeat("ab", 32))
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		t.Fatalf("cannot parse secret output %q: %s", raw, err)
	}

	var locked struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	raw = runCmd(t, cmdLock,
		"-home", home,
		"-key", aliceKey,
		"-escrow", "1",
		"-recipient", bob.String(),
		"-amount", "0.3 MINA",
		"-hashlock", secret.Hashlock)
	if err := json.Unmarshal([]byte(raw), &locked); err != nil {
		t.Fatalf("cannot parse lock output %q: %s", raw, err)
	}
	if locked.ID != "1" || locked.State != "locked" {
		t.Fatalf("unexpected escrow after lock: %+v", locked)
	}

	if got := runCmd(t, cmdBalance, "-home", home, "-key", aliceKey, "-ticker", "MINA"); got != "0.7 MINA\n" {
		t.Fatalf("unexpected alice balance: %q", got)
	}

	runCmd(t, cmdUnlock, "-home", home, "-key", bobKey, "-escrow", "1", "-secret", secret.Secret)

	if got := runCmd(t, cmdBalance, "-home", home, "-address", bob.String(), "-ticker", "MINA"); got != "0.3 MINA\n" {
		t.Fatalf("unexpected bob balance: %q", got)
	}

	var shown struct {
		State  string `json:"state"`
		Secret string `json:"secret"`
	}
	raw = runCmd(t, cmdShow, "-home", home, "-escrow", "1")
	if err := json.Unmarshal([]byte(raw), &shown); err != nil {
		t.Fatalf("cannot parse show output %q: %s", raw, err)
	}
	if shown.State != "released" || shown.Secret != secret.Secret {
		t.Fatalf("unexpected escrow: %+v", shown)
	}

	var listed []json.RawMessage
	raw = runCmd(t, cmdList, "-home", home, "-hashlock", secret.Hashlock)
	if err := json.Unmarshal([]byte(raw), &listed); err != nil {
		t.Fatalf("cannot parse list output %q: %s", raw, err)
	}
	if len(listed) != 1 {
		t.Fatalf("want one escrow for the hashlock, got %d", len(listed))
	}

	// A second refund is rejected, the escrow is closed.
	var out bytes.Buffer
	if err := cmdRefund(nil, &out, []string{"-home", home, "-key", aliceKey, "-escrow", "1"}); err == nil {
		t.Fatal("refund of a released escrow must fail")
	}
}

func TestInitRefusesExistingHome(t *testing.T) {
	dir, err := ioutil.TempDir("", "htlcd")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(dir)

	if err := ioutil.WriteFile(filepath.Join(dir, configFile), []byte("{}"), 0600); err != nil {
		t.Fatalf("cannot write config: %s", err)
	}
	var out bytes.Buffer
	if err := cmdInit(nil, &out, []string{"-home", dir, "-genesis", filepath.Join(dir, "genesis.json")}); err == nil {
		t.Fatal("init must not overwrite an existing configuration")
	}
}
