// Package visibility holds the moderation rules for the board. It has no
// storage or transport dependencies so the rules can be tested on their own.
package visibility

// Default resolves the visibility of a newly created message. A request
// that does not specify the flag gets a visible message.
func Default(requested *bool) bool {
	if requested == nil {
		return true
	}
	return *requested
}
