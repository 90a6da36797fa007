// Package locale resolves notification and UI message keys into text.
package locale

import (
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

const DefaultLanguage = "en"

// SupportedLanguages lists the bundled message catalogs.
var SupportedLanguages = []string{"en", "es"}

// RefPrefix marks a placeholder value that names another message key.
const RefPrefix = "@"

// Messages holds translations for every bundled language.
type Messages struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	matcher      language.Matcher
	supported    []language.Tag
	logger       *slog.Logger
}

func Load(logger *slog.Logger) (*Messages, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Messages{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}
	for _, lang := range SupportedLanguages {
		m.supported = append(m.supported, language.MustParse(lang))
		if err := m.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("load language %s: %w", lang, err)
		}
	}
	m.matcher = language.NewMatcher(m.supported)
	logger.Debug("locale catalogs loaded", "languages", SupportedLanguages)
	return m, nil
}

func (m *Messages) loadLanguage(lang string) error {
	p := path.Join("locales", lang+".yaml")
	data, err := localesFS.ReadFile(p)
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[lang] = messages
	return nil
}

// Match picks the closest bundled language for a language code or an
// Accept-Language style list, falling back to DefaultLanguage.
func (m *Messages) Match(lang string) string {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(m.supported) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// Text returns the raw message for key. Missing keys fall back to the
// default language, then to the key itself.
func (m *Messages) Text(lang, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if msg, ok := m.translations[lang][key]; ok {
		return msg
	}
	if msg, ok := m.translations[DefaultLanguage][key]; ok {
		if lang != DefaultLanguage {
			m.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
		return msg
	}
	return key
}

// Format renders key with %name% placeholders substituted. Placeholder
// values starting with "@" are themselves message keys.
func (m *Messages) Format(lang, key string, placeholders map[string]string) string {
	msg := m.Text(lang, key)
	if len(placeholders) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(placeholders)*2)
	for name, value := range placeholders {
		if ref, ok := strings.CutPrefix(value, RefPrefix); ok && ref != "" {
			value = m.Text(lang, ref)
		}
		pairs = append(pairs, "%"+name+"%", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Sink receives rendered notifications for a viewer.
type Sink func(viewer uuid.UUID, text string)

// Notifier renders notification keys in one language and hands the text,
// prefixed, to a Sink.
type Notifier struct {
	messages *Messages
	lang     string
	sink     Sink
}

func (m *Messages) Notifier(lang string, sink Sink) *Notifier {
	return &Notifier{messages: m, lang: m.Match(lang), sink: sink}
}

func (n *Notifier) Notify(viewer uuid.UUID, key string, placeholders map[string]string) {
	if n.sink == nil {
		return
	}
	n.sink(viewer, n.messages.Text(n.lang, "prefix")+n.messages.Format(n.lang, key, placeholders))
}

func (n *Notifier) Language() string {
	return n.lang
}
