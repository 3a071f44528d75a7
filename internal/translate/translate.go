// Package translate provides the caption translation stand-in. The contract
// is intentionally small: never drop text, tag targets we have no dictionary
// for. Real machine translation would slot in behind the Translator
// interface.
package translate

import "strings"

// Translator converts normalized caption text into the target language.
type Translator interface {
	Translate(text, targetLanguage string) string
}

// RuleTranslator substitutes words from fixed per-language dictionaries.
// Lookup uses only the primary subtag of the target (es-ES -> es).
type RuleTranslator struct {
	dictionaries map[string]map[string]string
}

// NewRuleTranslator returns a translator seeded with the built-in es, fr and
// hi dictionaries.
func NewRuleTranslator() *RuleTranslator {
	return &RuleTranslator{
		dictionaries: map[string]map[string]string{
			"es": {"hello": "hola", "welcome": "bienvenido", "thanks": "gracias"},
			"fr": {"hello": "bonjour", "welcome": "bienvenue", "thanks": "merci"},
			"hi": {"hello": "नमस्ते", "welcome": "स्वागत", "thanks": "धन्यवाद"},
		},
	}
}

// Translate replaces each space-separated token with its dictionary match
// when one exists. An empty target or the "en" baseline returns the text
// unchanged. A target with no dictionary returns the text prefixed with its
// bracketed primary subtag so nothing is ever silently dropped.
func (t *RuleTranslator) Translate(text, targetLanguage string) string {
	if text == "" {
		return ""
	}
	if targetLanguage == "" || targetLanguage == "en" {
		return text
	}

	subtag := strings.SplitN(targetLanguage, "-", 2)[0]
	replacements, ok := t.dictionaries[subtag]
	if !ok {
		return "[" + subtag + "] " + text
	}

	words := strings.Split(text, " ")
	for i, word := range words {
		if replacement, ok := replacements[strings.ToLower(word)]; ok {
			words[i] = replacement
		}
	}
	return strings.Join(words, " ")
}
