// Package testutil provides shared helpers for building registry fixtures
// in tests.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteMeta writes an environment meta file into a registry fixture
// directory. Extra lines are appended verbatim after DIR and PID.
func WriteMeta(t *testing.T, registry, id string, dir string, pid int, extra ...string) {
	t.Helper()

	lines := []string{
		fmt.Sprintf("DIR=%s", dir),
		fmt.Sprintf("PID=%d", pid),
	}
	lines = append(lines, extra...)
	content := strings.Join(lines, "\n") + "\n"

	require.NoError(t, os.WriteFile(filepath.Join(registry, id), []byte(content), 0644))
}

// WriteRawMeta writes a meta file with exactly the given content, for
// malformed-file tests.
func WriteRawMeta(t *testing.T, registry, id, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(registry, id), []byte(content), 0644))
}

// WriteStatus writes a current-convention status file (<id>.<unit>.status).
func WriteStatus(t *testing.T, registry, id, unit, content string) {
	t.Helper()
	name := fmt.Sprintf("%s.%s.status", id, unit)
	require.NoError(t, os.WriteFile(filepath.Join(registry, name), []byte(content), 0644))
}

// WriteLegacyStatus writes a legacy dotted status file (.<id>.<unit>.status).
func WriteLegacyStatus(t *testing.T, registry, id, unit, content string) {
	t.Helper()
	name := fmt.Sprintf(".%s.%s.status", id, unit)
	require.NoError(t, os.WriteFile(filepath.Join(registry, name), []byte(content), 0644))
}

// RemoveStatus deletes a status file, simulating a unit going away.
func RemoveStatus(t *testing.T, registry, id, unit string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(registry, fmt.Sprintf("%s.%s.status", id, unit))))
}

// RandomHexID generates a random hex id of the given length, suitable as an
// environment id.
func RandomHexID(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
