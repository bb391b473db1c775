package main

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildworks/scrollfx/internal/contact"
	"github.com/buildworks/scrollfx/internal/director"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestValidateBuiltIn(t *testing.T) {
	out, _, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in: scene")
	assert.Contains(t, out, "scroll limit 6120px")
	assert.Contains(t, out, "projects")
}

func TestValidateExportedScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	_, _, err := execute(t, "validate", "--export", path)
	require.NoError(t, err)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": scene")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sections: [{id: \"\"}]\n"), 0644))
	_, _, err = execute(t, "validate", path, bad)
	assert.EqualError(t, err, "1 of 2 scenes invalid")
}

func TestTraceWritesScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	out, _, err := execute(t, "trace", "--out", path, "--duration", "4", "--fps", "5", "--frames")
	require.NoError(t, err)

	script, err := director.ReadScript(path)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, script.Duration, 1e-9)
	assert.NotEmpty(t, script.Keyframes)
	assert.Equal(t, 20, bytes.Count([]byte(out), []byte("\n")))
}

func TestContactSend(t *testing.T) {
	inbox, err := contact.OpenInbox(":memory:")
	require.NoError(t, err)
	defer inbox.Close()
	srv := httptest.NewServer(contact.NewServer(inbox, contact.ServerOptions{}, zap.NewNop()))
	defer srv.Close()

	out, _, err := execute(t, "contact", "send", "--api", srv.URL,
		"--name", "Ana Reyes", "--email", "ana@example.com", "--message", "Two storey house in Cebu")
	require.NoError(t, err)
	assert.Equal(t, contact.ThankYou+"\n", out)

	all, err := inbox.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana Reyes", all[0].Name)
	assert.Equal(t, contact.DefaultProjectType, all[0].ProjectType)
	assert.Equal(t, contact.DefaultBudget, all[0].Budget)

	_, stderr, err := execute(t, "contact", "send", "--api", srv.URL, "--email", "not-an-email")
	var invalid *contact.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, stderr, "email: Please enter a valid email.")
	assert.Contains(t, stderr, "name: Please enter your name.")

	all, err = inbox.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
