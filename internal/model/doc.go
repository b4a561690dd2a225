// Package model defines the CBOR value model, options, hooks, thunks and
// error types shared by the codec's internal packages and re-exported
// (via type/func aliases) from the module root. Keeping it internal and
// separate from internal/wire lets the core codec state machine depend on
// the value model without the root package depending on internal/wire in
// a cycle: root imports both, internal/wire imports model but never the
// root package.
package model
