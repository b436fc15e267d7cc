// Package browser drives a single persistent Playwright browser context on
// behalf of the agent.
//
// A Session owns the Playwright driver, the persistent context and the
// notion of which tab and frame subsequent actions target. Every primitive
// validates its locator before touching the page and resolves it against the
// current frame scope, so the agent can step into an iframe once and keep
// addressing elements with plain selectors.
//
// # Lifecycle
//
//  1. Start: creates the profile directory, clears stale browser processes
//     bound to it, launches the persistent context and adopts its first page
//  2. Use: navigation, interaction, tab and frame switching, page overview
//     and element discovery
//  3. Stop: closes the context and the driver and resets all state
//
// Start is idempotent and Stop may be called on a session that never started.
//
// # Element discovery
//
// Overview groups the visible interactive elements of the page by role.
// FindByText ranks every visible element containing a piece of text so that
// native controls outrank the decorative spans inside them, and tags the
// winners with a data-webpilot-find-id marker the agent can click directly.
// Both fall back to a static goquery parse of the page content when the
// in-page probe cannot run.
//
// # Errors
//
// Failures are reported as *ActionError values that wrap one of the sentinel
// errors (ErrTimeout, ErrNotFound, ErrInvalidSelector, ...) so callers can
// branch with errors.Is without parsing messages.
package browser
