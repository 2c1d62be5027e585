// Package testutil loads the literal-byte handshake scenarios from
// testdata/scenarios.toml and drives them over a net.Pipe, so the
// socks5 and socks4 test suites can assert against a shared set of
// concrete scenarios instead of re-deriving the same byte sequences by
// hand in every _test.go file.
package testutil

import (
	"encoding/hex"
	"net"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/BurntSushi/toml"
)

// Exchange is one scripted write: Dir is "client" (bytes the driver
// under test is expected to send) or "server" (bytes the scripted peer
// sends back).
type Exchange struct {
	Dir string `toml:"dir"`
	Hex string `toml:"hex"`
}

// Scenario is one named handshake fixture.
type Scenario struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Exchange    []Exchange `toml:"exchange"`
}

type scenarioFile struct {
	Scenario []Scenario `toml:"scenario"`
}

// LoadScenario decodes testdata/scenarios.toml and returns the
// scenario with the given name, failing the test if it's missing.
func LoadScenario(t *testing.T, name string) Scenario {
	t.Helper()

	var file scenarioFile
	if _, err := toml.DecodeFile(scenariosPath(), &file); err != nil {
		t.Fatalf("decode scenarios.toml: %v", err)
	}
	for _, s := range file.Scenario {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("scenario %q not found in scenarios.toml", name)
	return Scenario{}
}

// scenariosPath locates testdata/scenarios.toml relative to this
// source file, so callers in any package under the module can load it
// without relying on the test binary's working directory.
func scenariosPath() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "scenarios.toml")
}

// Play runs the server side of a Scenario over conn, in a goroutine,
// meant to be paired with the driver under test running against the
// other end of a net.Pipe. For a "client" exchange it reads exactly
// len(decoded bytes) from conn and reports a mismatch via tb.Errorf;
// for a "server" exchange it writes the decoded bytes. It returns a
// channel closed once the script completes (or fails).
func Play(tb testing.TB, conn net.Conn, s Scenario) <-chan struct{} {
	tb.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, ex := range s.Exchange {
			want, err := hex.DecodeString(ex.Hex)
			if err != nil {
				tb.Errorf("decode exchange hex %q: %v", ex.Hex, err)
				return
			}
			switch ex.Dir {
			case "server":
				if _, err := conn.Write(want); err != nil {
					tb.Errorf("write scripted server bytes: %v", err)
					return
				}
			case "client":
				got := make([]byte, len(want))
				if _, err := readFull(conn, got); err != nil {
					tb.Errorf("read client bytes: %v", err)
					return
				}
				if !bytesEqual(got, want) {
					tb.Errorf("client wrote %x, want %x", got, want)
					return
				}
			default:
				tb.Errorf("unknown exchange dir %q", ex.Dir)
				return
			}
		}
	}()
	return done
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
