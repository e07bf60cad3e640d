package transform

import (
	"regexp"
	"time"

	"github.com/opsdash/mcsync/internal/models"
)

// TimestampLayout is the wall-clock format attached to processed messages.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// updatedMarker matches the "(Updated)" marker the feed prepends to
	// revised announcements, plus any whitespace that follows it.
	updatedMarker = regexp.MustCompile(`\(Updated\)\s*`)

	// bracketed matches a bracketed segment, shortest match first.
	bracketed = regexp.MustCompile(`\[(.*?)\]`)
)

// CleanTitle removes every "(Updated)" marker and its trailing whitespace
// from a title. Titles without the marker are returned unchanged.
func CleanTitle(title string) string {
	return updatedMarker.ReplaceAllString(title, "")
}

// BoldBrackets rewrites every bracketed segment in body content to bold
// markup: "[X]" becomes "<b>X</b>". Unmatched brackets are left as literal
// text. Running it again on already-rewritten content is a no-op since the
// brackets are gone.
func BoldBrackets(content string) string {
	return bracketed.ReplaceAllString(content, "<b>$1</b>")
}

// Normalize applies both text rewrite rules to a message in place. No other
// field is touched.
func Normalize(msg *models.Message) {
	msg.Title = CleanTitle(msg.Title)
	msg.Body.Content = BoldBrackets(msg.Body.Content)
}

// Stamp attaches the processing timestamp to a message, overwriting any
// prior value.
func Stamp(msg *models.Message, now time.Time) {
	msg.ProcessedTimestamp = now.Format(TimestampLayout)
}
