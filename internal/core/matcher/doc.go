// Package matcher provides interchangeable engines for classifying
// hex color codes.
//
//   - scan: byte scanner from pkg/hexcolor (default)
//   - regexp: RE2 engine from the standard library
//   - backtracking: dlclark/regexp2 engine
//
// Every engine accepts exactly the same language; the regex engines
// exist so the scanner can be checked against the expression it
// implements, and so deployments can pick the engine explicitly.
package matcher
