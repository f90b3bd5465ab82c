// Package lua runs page scripts in a sandboxed gopher-lua state.
//
// A State opens only the base, table, string and math libraries. The
// dofile, loadfile, load and loadstring functions are removed, print is
// routed to the structured logger and require only resolves preloaded
// modules.
//
// # Page module
//
// PageAPI exposes the document to scripts as the "page" module. Every
// mutation it offers is a history command, so a script's edits can be
// undone like any interactive edit:
//
//	local page = require("page")
//	page.transaction("Tidy", function()
//	    page.reorder("footer-cta", "hero")
//	    page.rename("hero", "Welcome")
//	    page.settings({ customBackground = true, backgroundColor = "#fafafa" })
//	end)
//
// # Timeouts
//
// Each DoString or DoFile call runs under a context deadline derived from
// WithExecutionTimeout. gopher-lua checks the context between
// instructions, so tight loops are interrupted as well.
package lua
