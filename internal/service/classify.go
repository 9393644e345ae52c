package service

import (
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// taskVerbs are verb stems that mark a note as actionable.
var taskVerbs = []string{
	"comprar", "llamar", "enviar", "pagar", "reservar", "revisar",
	"pedir", "recoger", "terminar", "preparar", "avisar",
	"buy", "call", "send", "pay", "book", "review", "finish",
}

// ClassifyContent assigns a coarse content type to a raw note. Notes
// containing a URL are links, notes led by an action verb are tasks,
// everything else is a plain note.
func ClassifyContent(text string) string {
	if urlRe.MatchString(text) {
		return "link"
	}
	lower := strings.ToLower(text)
	for _, verb := range taskVerbs {
		if strings.Contains(lower, verb) {
			return "task"
		}
	}
	return "note"
}

// FirstURL returns the first URL in the text, with trailing punctuation
// stripped, or the empty string.
func FirstURL(text string) string {
	match := urlRe.FindString(text)
	return strings.TrimRight(match, ".,;:)>]")
}
