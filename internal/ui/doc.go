// Package ui provides the Bubble Tea terminal interface for shaker.
//
// The Model renders four views: search (with recent searches), recipe
// detail, favorites and cart. Every user action is dispatched to the
// state.Session. After an action the Model re-reads a Snapshot, so rendering
// never touches live session state.
//
// Searches and recipe lookups run as tea.Cmds. Until the result message
// arrives the query key is shown as IN_FLIGHT with a spinner, and failures
// render inline as "Error: ...". Results for a search the user has since
// replaced are dropped when they arrive.
//
// Favorite and cart changes confirm with a toast in the footer that expires
// after a few seconds. Cycling the theme saves it to the preferences file.
package ui
