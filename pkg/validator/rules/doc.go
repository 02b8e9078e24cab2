// Package rules registers the built-in validators. Import it for its side
// effect:
//
//	import _ "github.com/leapstack-labs/feedlint/pkg/validator/rules"
//
// Each file defines one validator, the notice kinds only it emits, and the
// init() function that registers it.
package rules
