package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vk/meepgen/internal/testutil"
)

// setupAppTest creates a new app instance for system testing. Logs are
// printed on demand with MEEPGEN_TEST_LOGS=true.
func setupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	outBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	testApp := NewApp(outBuffer, logBuffer, &cfg)

	t.Cleanup(func() {
		if os.Getenv("MEEPGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer, outBuffer
}

const waveguideHCL = `
	title = "Straight Waveguide"

	geometry "wg" {
	  kind   = "rectangle"
	  width  = 4
	  height = 0.5
	}

	source "src" {
	  kind      = "continuousSource"
	  pos       = { x = -3, y = 0 }
	  frequency = 1
	}
`

func sceneFile(t *testing.T, content string) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"scene.hcl": content})
	return filepath.Join(dir, "scene.hcl")
}
