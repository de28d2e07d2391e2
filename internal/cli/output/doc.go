// Package output renders CLI results.
//
// Three formats are supported:
//
//   - table: aligned columns via tablewriter, with an optional wide mode
//   - json: indented encoding/json output
//   - yaml: gopkg.in/yaml.v3 output
//
// Commands build either a *Table or a plain value and hand it to the
// Formatter returned by NewFormatter.
package output
