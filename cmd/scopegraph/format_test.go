package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopegraph/internal/store"
)

func TestOutputResultText_Tallies(t *testing.T) {
	var buf bytes.Buffer
	err := outputResultText(&buf, []store.TallyRow{
		{File: "main.py", Missing: 1, Resolved: 2},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "FILE")
	assert.Contains(t, buf.String(), "main.py")
	assert.Contains(t, buf.String(), "2")
}

func TestOutputResultText_Namespaces(t *testing.T) {
	var buf bytes.Buffer
	err := outputResultText(&buf, []store.NamespaceRow{
		{File: "main.py", Namespace: "helpers.greet", ModuleType: "local",
			TargetFile: "helpers.py", Status: "resolved"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "helpers.greet")
	assert.Contains(t, buf.String(), "resolved")
}

func TestOutputResultText_UnsupportedType(t *testing.T) {
	var buf bytes.Buffer
	err := outputResultText(&buf, 42)
	require.Error(t, err)
}
