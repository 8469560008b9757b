package lang

import (
	"github.com/smacker/go-tree-sitter/java"
)

func init() {
	Registry["java"] = &Language{
		Name:        "java",
		Extensions:  []string{".java"},
		Grammar:     java.GetLanguage(),
		LocalsQuery: javaLocals,
	}
}

// javaLocals mirrors the python query's tag vocabulary. Type names sit
// outside their body scope in the grammar, so they stay local; method names
// hoist out of the method scope into the enclosing class body.
const javaLocals = `
;; scopes
(program) @local.scope
(class_body) @local.scope
(interface_body) @local.scope
(method_declaration) @local.scope
(constructor_declaration) @local.scope
(block) @local.scope

;; definitions
(class_declaration name: (identifier) @local.definition.class)
(interface_declaration name: (identifier) @local.definition.class)
(enum_declaration name: (identifier) @local.definition.class)
(method_declaration name: (identifier) @hoist.definition.method)
(constructor_declaration name: (identifier) @hoist.definition.method)
(formal_parameter name: (identifier) @local.definition.parameter)
(local_variable_declaration
  declarator: (variable_declarator name: (identifier) @local.definition.variable))
(field_declaration
  declarator: (variable_declarator name: (identifier) @local.definition.variable))

;; imports
(import_declaration) @local.import.statement
(import_declaration (scoped_identifier) @local.import.name)

;; references
(method_invocation object: (identifier) @local.reference)
(method_invocation name: (identifier) @local.reference)
(argument_list (identifier) @local.reference)
(assignment_expression right: (identifier) @local.reference)
(binary_expression left: (identifier) @local.reference)
(binary_expression right: (identifier) @local.reference)
(return_statement (identifier) @local.reference)
(field_access object: (identifier) @local.reference)
(object_creation_expression type: (type_identifier) @local.reference)
`
