// Package search answers typeahead queries over the users listing.
//
// A Service keeps the listing in a cache.Memo keyed by
// cache.Encode("GET", "USERS"). The first query after expiry fetches the
// listing through the resilience executor; queries arriving meanwhile wait
// on that same fetch. Each fetch builds a Directory, so the name index is
// cached along with the list.
//
// Debouncer and Selection carry the interactive side: only the latest
// keystroke text is searched once typing pauses, and a picked suggestion
// becomes the next input.
package search
