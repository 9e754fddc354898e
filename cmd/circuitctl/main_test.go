package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot/snapshottest"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeDoc(t *testing.T, dir, name string, doc snapshot.Document) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "circuitctl version "+version)
}

func TestKinds(t *testing.T) {
	code, out, _ := execute(t, "kinds")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "battery\n")
	assert.Contains(t, out, "roles: drive, steering")
	assert.Contains(t, out, "wire\n")
}

func TestValidate_LED(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "led.yaml", snapshottest.LED(true))

	code, out, stderr := execute(t, "validate", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "VALID")
	assert.Contains(t, out, "bat -> sw -> led -> bat")
}

func TestValidate_JSONFormat(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "car.yaml", snapshottest.Vehicle(75, 50))

	code, out, stderr := execute(t, "validate", "--variant", "vehicle", "-o", "json", path)
	require.Equal(t, 0, code, stderr)

	var got struct {
		Vehicle struct {
			IsValid          bool `json:"isValid"`
			DriveMotorStatus struct {
				Speed float64 `json:"speed"`
			} `json:"driveMotorStatus"`
		} `json:"vehicle"`
		Nodes []snapshot.NodeDoc `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Vehicle.IsValid)
	assert.Equal(t, 75.0, got.Vehicle.DriveMotorStatus.Speed)
	assert.Len(t, got.Nodes, 10)
}

func TestValidate_InvalidExitsTwo(t *testing.T) {
	doc := snapshottest.LED(true)
	doc.Edges = doc.Edges[:2] // open the loop
	path := writeDoc(t, t.TempDir(), "open.yaml", doc)

	code, out, _ := execute(t, "validate", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "No complete circuit found")
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "led.yaml", snapshottest.LED(true))

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"validate", filepath.Join(dir, "nope.yaml")}, "read snapshot"},
		{"bad variant", []string{"validate", "--variant", "boat", good}, `unknown variant "boat"`},
		{"bad format", []string{"validate", "-o", "xml", good}, `unknown output format "xml"`},
		{"no args", []string{"validate"}, "accepts 1 arg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := execute(t, tc.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tc.want)
		})
	}
}

func TestValidate_WritesMetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "led.yaml", snapshottest.LED(true))
	prom := filepath.Join(dir, "circuitlab.prom")

	code, _, stderr := execute(t, "validate", "--metrics-file", prom, path)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "circuitlab_validations_total")
}

func TestCheck_SampleLibrary(t *testing.T) {
	code, out, stderr := execute(t, "check", "--strict", "--config", filepath.Join("..", "..", "configs", "circuits.yaml"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "3/3 solved")
}

func TestCheck_SelectAndStrict(t *testing.T) {
	lib := `
version: "1"
circuits:
  - id: dark
    goal: led.on
    circuit:
      nodes:
        - {id: bat, type: battery}
        - {id: sw, type: rocker-switch, data: {isOn: false}}
        - {id: led, type: led}
      edges:
        - {id: e1, source: bat, target: sw}
        - {id: e2, source: sw, target: led}
        - {id: e3, source: led, target: bat}
  - id: nothing
    circuit: {}
`
	path := filepath.Join(t.TempDir(), "lib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lib), 0o644))

	code, out, _ := execute(t, "check", "--config", path)
	assert.Equal(t, 0, code, "unsolved puzzles pass without --strict")
	assert.Contains(t, out, "0/2 solved")

	code, _, _ = execute(t, "check", "--strict", "--config", path)
	assert.Equal(t, 2, code)

	code, out, _ = execute(t, "check", "-o", "yaml", "--config", path, "dark")
	require.Equal(t, 0, code)
	var reports []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "dark", reports[0]["id"])
	assert.Equal(t, "unsolved", reports[0]["status"])

	code, _, stderr := execute(t, "check", "--config", path, "ghost")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `no puzzle with id "ghost"`)
}

func TestWatch_Snapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "led.yaml", snapshottest.LED(true))

	ctx, cancel := context.WithCancel(context.Background())
	var out, errOut syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"watch", path}, &out, &errOut)
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Completed circuits") == 1
	}, 5*time.Second, 10*time.Millisecond)

	writeDoc(t, dir, "led.yaml", snapshottest.LED(false))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[LED off]")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code, errOut.String())
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
