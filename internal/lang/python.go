package lang

import (
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Registry["python"] = &Language{
		Name:        "python",
		Extensions:  []string{".py"},
		Grammar:     python.GetLanguage(),
		LocalsQuery: pythonLocals,
		InitFile:    "__init__.py",
	}
}

// pythonLocals tags scopes, definitions, imports and references for the
// scope graph builder. Function and class names hoist out of their own
// definition scope so that top-level definitions attach to the module scope.
const pythonLocals = `
;; scopes
(module) @local.scope
(function_definition) @local.scope
(class_definition) @local.scope
(lambda) @local.scope

;; definitions
(class_definition name: (identifier) @hoist.definition.class)
(function_definition name: (identifier) @hoist.definition.function)
(parameters (identifier) @local.definition.parameter)
(typed_parameter (identifier) @local.definition.parameter)
(default_parameter name: (identifier) @local.definition.parameter)
(typed_default_parameter name: (identifier) @local.definition.parameter)
(lambda_parameters (identifier) @local.definition.parameter)
(assignment left: (identifier) @local.definition.variable)
(assignment left: (pattern_list (identifier) @local.definition.variable))
(assignment left: (tuple_pattern (identifier) @local.definition.variable))
(for_statement left: (identifier) @local.definition.variable)
(named_expression name: (identifier) @local.definition.variable)
(global_statement (identifier) @global.definition.variable)

;; imports
(import_statement) @local.import.statement
(import_statement name: (dotted_name) @local.import.name)
(import_statement
  name: (aliased_import
    name: (dotted_name) @local.import.name
    alias: (identifier) @local.import.alias))
(import_from_statement) @local.import.statement
(import_from_statement module_name: (dotted_name) @local.import.module)
(import_from_statement name: (dotted_name) @local.import.name)
(import_from_statement
  name: (aliased_import
    name: (dotted_name) @local.import.name
    alias: (identifier) @local.import.alias))

;; references
(call function: (identifier) @local.reference)
(attribute object: (identifier) @local.reference)
(argument_list (identifier) @local.reference)
(keyword_argument value: (identifier) @local.reference)
(assignment right: (identifier) @local.reference)
(binary_operator left: (identifier) @local.reference)
(binary_operator right: (identifier) @local.reference)
(comparison_operator (identifier) @local.reference)
(return_statement (identifier) @local.reference)
(subscript value: (identifier) @local.reference)
(for_statement right: (identifier) @local.reference)
(if_statement condition: (identifier) @local.reference)
(while_statement condition: (identifier) @local.reference)
(interpolation (identifier) @local.reference)
(list (identifier) @local.reference)
(tuple (identifier) @local.reference)
`
