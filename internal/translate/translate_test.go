package translate

import (
	"strings"
	"testing"
)

func TestTranslateIdentityForBaseline(t *testing.T) {
	tr := NewRuleTranslator()
	if got := tr.Translate("Hello there", ""); got != "Hello there" {
		t.Errorf("empty target: got %q, want identity", got)
	}
	if got := tr.Translate("Hello there", "en"); got != "Hello there" {
		t.Errorf("en target: got %q, want identity", got)
	}
}

func TestTranslateKnownWords(t *testing.T) {
	tr := NewRuleTranslator()
	got := tr.Translate("hello friend thanks", "es")
	if got != "hola friend gracias" {
		t.Errorf("es translation: got %q, want %q", got, "hola friend gracias")
	}
}

func TestTranslateMatchesCaseInsensitively(t *testing.T) {
	tr := NewRuleTranslator()
	got := tr.Translate("Hello Welcome", "fr")
	if got != "bonjour bienvenue" {
		t.Errorf("fr translation: got %q, want %q", got, "bonjour bienvenue")
	}
}

func TestTranslateUsesPrimarySubtag(t *testing.T) {
	tr := NewRuleTranslator()
	got := tr.Translate("hello", "es-ES")
	if got != "hola" {
		t.Errorf("es-ES translation: got %q, want %q", got, "hola")
	}
}

func TestTranslateUnknownTargetTagsText(t *testing.T) {
	tr := NewRuleTranslator()
	got := tr.Translate("Hello there", "de-DE")
	if got != "[de] Hello there" {
		t.Errorf("unknown target: got %q, want %q", got, "[de] Hello there")
	}
	if !strings.Contains(got, "Hello there") {
		t.Errorf("unknown target dropped original text: %q", got)
	}
}

func TestTranslateEmptyText(t *testing.T) {
	tr := NewRuleTranslator()
	if got := tr.Translate("", "es"); got != "" {
		t.Errorf("empty text: got %q, want empty", got)
	}
}
