package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSpecYAML = `
name: scikit-decision-trees
instance_types:
  - ml.m4.xlarge
  - ml.m4.2xlarge
hyperparameters:
  - name: max_leaf_nodes
    type: integer
    min: 1
    max: 100000
    tunable: true
    default: "100"
  - name: free_text_hp1
    type: free_text
    required: true
channels:
  - name: training
    required: true
    input_modes:
      - File
`

const acceptedConfigYAML = `
instance_type: ml.m4.xlarge
instance_count: 1
hyperparameters:
  free_text_hp1: anything
channels:
  training: s3://mybucket/train
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateAcceptsConfiguration(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml", acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath, "--spec-file", specPath})
	require.NoError(t, cmd.Execute())
}

func TestValidateRejectsConfiguration(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml", `
instance_type: ml.c4.xlarge
instance_count: 1
`)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath, "--spec-file", specPath})
	err := cmd.Execute()
	require.ErrorContains(t, err, "training configuration rejected with 3 violation(s)")
}

func TestValidateReadsSettingsFromDocument(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml",
		"spec_file: "+specPath+"\n"+acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath})
	require.NoError(t, cmd.Execute())
}

func TestValidateFlagOverridesDocument(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml",
		"spec_file: /nonexistent/spec.yaml\n"+acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath, "--spec-file", specPath})
	require.NoError(t, cmd.Execute())
}

func TestValidateReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml", acceptedConfigYAML)

	t.Setenv("ALGOCHECK_SPEC_FILE", specPath)
	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath})
	require.NoError(t, cmd.Execute())
}

func TestValidatePreservesHyperparameterCase(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", `
name: case-sensitive
instance_types:
  - ml.m4.xlarge
hyperparameters:
  - name: maxDepth
    type: integer
`)
	configPath := writeFile(t, dir, "config.yaml", `
instance_type: ml.m4.xlarge
instance_count: 1
hyperparameters:
  maxDepth: 3
`)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath, "--spec-file", specPath})
	require.NoError(t, cmd.Execute())
}

func TestValidateRequiresSpecSource(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath})
	err := cmd.Execute()
	require.ErrorContains(t, err, "one of spec_file or algorithm_arn must be provided")
}

func TestValidateRejectsConflictingSources(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml", acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{
		configPath, "--spec-file", specPath, "--algorithm-arn", "arn:aws:sagemaker:::algorithm/x",
	})
	err := cmd.Execute()
	require.ErrorContains(t, err, "spec_file and algorithm_arn are mutually exclusive")
}

func TestValidateRejectsUnknownDocumentKeys(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFile(t, dir, "spec.yaml", testSpecYAML)
	configPath := writeFile(t, dir, "config.yaml", "foo: bar\n"+acceptedConfigYAML)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{configPath, "--spec-file", specPath})
	err := cmd.Execute()
	require.ErrorContains(t, err, "cannot unmarshal training configuration")
}

func TestValidateMissingConfigFile(t *testing.T) {
	cmd := newValidateCmd()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})
	err := cmd.Execute()
	require.ErrorContains(t, err, "error reading training configuration file")
}
