package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/logging"
	"github.com/k8s-cicd/deployctl/internal/orchestrator"
	"github.com/k8s-cicd/deployctl/internal/values"
)

// writeProject lays out a minimal pipeline project and returns its paths.
func writeProject(t *testing.T) (configPath, valuesPath string) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "manifests"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "manifests", "deployment.yaml.tmpl"),
		[]byte("kind: Deployment\nmetadata:\n  name: {{APP_NAME}}\nspec:\n  replicas: {{REPLICAS}}\n"),
		0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "manifests", "namespace.yaml.tmpl"),
		[]byte("kind: Namespace\nmetadata:\n  name: {{NAMESPACE}}\n"),
		0o644))

	configPath = filepath.Join(dir, "deploy.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"app: hello\ntemplateDir: manifests\nrequiredValues:\n  - APP_NAME\n  - NAMESPACE\n  - REPLICAS\n",
	), 0o644))

	valuesPath = filepath.Join(dir, "values.env")
	require.NoError(t, os.WriteFile(valuesPath, []byte("APP_NAME=hello\nNAMESPACE=demo\nREPLICAS=2\n"), 0o644))

	return configPath, valuesPath
}

func TestRenderCommand(t *testing.T) {
	configPath, valuesPath := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "out")

	logger := logging.NewLogger(os.Stderr, logging.LevelError)
	err := Execute([]string{
		"render",
		"--config", configPath,
		"--values", valuesPath,
		"--output", outDir,
	}, logger)
	require.NoError(t, err)

	deployment, err := os.ReadFile(filepath.Join(outDir, "deployment.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(deployment), "name: hello")
	assert.Contains(t, string(deployment), "replicas: 2")
	assert.NotContains(t, string(deployment), "{{")

	namespace, err := os.ReadFile(filepath.Join(outDir, "namespace.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(namespace), "name: demo")
}

func TestRenderCommandMissingRequiredValues(t *testing.T) {
	configPath, _ := writeProject(t)

	logger := logging.NewLogger(os.Stderr, logging.LevelError)
	err := Execute([]string{
		"render",
		"--config", configPath,
		"--vars", "APP_NAME=hello",
	}, logger)
	require.Error(t, err)
	assert.True(t, values.IsConfigError(err))
	assert.Contains(t, err.Error(), "NAMESPACE")
	assert.Contains(t, err.Error(), "REPLICAS")
}

func TestResolveNamespacePrecedence(t *testing.T) {
	envCfg := config.Environment{Namespace: "from-env"}
	vals := values.Set{keyNamespace: "from-values"}

	assert.Equal(t, "from-flag", resolveNamespace(&Options{Namespace: "from-flag"}, vals, envCfg))
	assert.Equal(t, "from-values", resolveNamespace(&Options{}, vals, envCfg))
	assert.Equal(t, "from-env", resolveNamespace(&Options{}, values.Set{}, envCfg))
}

func TestResolveReplicas(t *testing.T) {
	n, err := resolveReplicas(values.Set{keyReplicas: "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = resolveReplicas(values.Set{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = resolveReplicas(values.Set{keyReplicas: "lots"})
	assert.Error(t, err)

	_, err = resolveReplicas(values.Set{keyReplicas: "-1"})
	assert.Error(t, err)
}

func TestPrintDeploySummary(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	attempt := &orchestrator.Attempt{
		ID:        7,
		App:       "hello",
		Namespace: "demo",
		Image:     "registry.example.com/hello:v2",
		Status:    orchestrator.StatusRolledBack,
	}
	stageErr := &orchestrator.StageError{
		Stage:             orchestrator.StageApply,
		Err:               errors.New("manifest rejected"),
		RollbackAttempted: true,
	}

	var buf bytes.Buffer
	printDeploySummary(&buf, attempt, stageErr)

	out := buf.String()
	assert.Contains(t, out, "deployment ROLLED_BACK")
	assert.Contains(t, out, "failed stage: apply")
	assert.Contains(t, out, "manifest rejected")
	assert.Contains(t, out, "previous revision restored")
}

func TestPrintDeploySummarySuccess(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	attempt := &orchestrator.Attempt{ID: 1, App: "hello", Namespace: "demo", Status: orchestrator.StatusSucceeded}

	var buf bytes.Buffer
	printDeploySummary(&buf, attempt, nil)

	out := buf.String()
	assert.Contains(t, out, "deployment SUCCEEDED")
	assert.NotContains(t, out, "failed stage")
}
