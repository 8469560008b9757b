// Package scopegraph builds shadowing-aware scope graphs for source files
// and links them across a repository. Per file it records scopes,
// definitions, imports and resolved references; across files it classifies
// imported namespaces and connects import references to the exported
// definitions they name.
package scopegraph
