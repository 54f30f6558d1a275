// Package i18n defines the locales supported by plateforme surfaces.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish, // en-US, base locale
	language.MustParse("fr-FR"),
}

var matcher = language.NewMatcher(supportedTags)

// DefaultTag returns the base locale tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// SupportedTags returns the list of supported locale tags.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// MatchAcceptLanguage resolves an Accept-Language header to a supported
// locale identifier. An empty or unparseable header yields the base locale.
func MatchAcceptLanguage(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return DefaultTag().String()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultTag().String()
	}
	_, index, _ := matcher.Match(tags...)
	return supportedTags[index].String()
}
