package chmi

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var translationsYAML []byte

// translations maps Czech sheet labels to canonical English column names.
// Loaded once at startup; immutable afterwards.
var translations = func() map[string]string {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(translationsYAML, &raw); err != nil {
		panic("chmi: embedded translation table is malformed: " + err.Error())
	}
	m := make(map[string]string, len(raw))
	for cz, en := range raw {
		m[cz] = strings.ReplaceAll(en, " ", "_")
	}
	return m
}()

// translate resolves a Czech sheet label to its canonical column name,
// returning the label unchanged (spaces underscored) when no translation
// exists so schema validation can report it.
func translate(label string) string {
	if en, ok := translations[label]; ok {
		return en
	}
	return strings.ReplaceAll(label, " ", "_")
}
