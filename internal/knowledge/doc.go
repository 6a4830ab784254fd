// Package knowledge loads and serves the fault knowledge base.
//
// A Base is an immutable snapshot of three tables read from one document:
//
//   - fallas: the ordered fault catalogue (name, attributes, causes, solutions)
//   - mapeo_palabras_clave: attribute to keyword phrases used by text extraction
//   - preguntas: attribute to the yes/no question asked about it
//
// Documents may be JSON, YAML or TOML; the format is chosen by file extension.
// Loading validates the whole document and fails on any structural problem, so a
// process never serves a partial base.
//
// A Store publishes the current Base behind an atomic pointer. Readers take one
// snapshot per request and never observe a half-applied reload. A Watcher
// reloads the Store when the file changes on disk and keeps the previous Base
// when the new content is invalid.
package knowledge
