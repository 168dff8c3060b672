// Package hostproto implements the JSON-lines protocol editor hosts use to
// talk to a numconv helper process.
//
// Each request and each response is one JSON object on its own line.
// Offsets are byte offsets into text; end is exclusive.
//
// A request targets either a cursor or a selection:
//
//	{"id":"1","text":"x = 0x1f;","offset":6,"to":"dec"}
//	{"id":"2","text":"x = 42;","start":4,"end":6,"to":"hex","from":"dec"}
//
// or, with "all":true and a single "from" base, every number in text:
//
//	{"id":"3","text":"a = 1, b = 2","all":true,"from":"dec","to":"bin"}
//
// "from" may be a base name or an array of them, "syntax" selects per
// language settings, and a missing "id" is replaced by a random UUID.
//
// Responses echo the id. A successful conversion reports the replaced span
// and the replacement text:
//
//	{"id":"1","ok":true,"start":4,"end":8,"text":"31","saturated":false}
//
// Failures carry an error code and message:
//
//	{"id":"1","ok":false,"error":{"code":"no_match","message":"no number found"}}
//
// The codes are no_match, overflow, invalid_pattern, base_unavailable and
// bad_request. The server answers requests one at a time in the order they
// arrive.
package hostproto
