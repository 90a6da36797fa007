package tag

import "strings"

// Tag is a named entitlement a viewer can hold as active.
type Tag struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Display     string   `yaml:"tag"`
	Description []string `yaml:"description"`
	Permission  string   `yaml:"permission"`
	Order       int      `yaml:"order"`
	Style       Style    `yaml:"style"`
}

// Style is the appearance payload. The catalog engine never inspects it.
type Style struct {
	Color  string   `yaml:"color"`
	Icon   string   `yaml:"icon"`
	Frames []string `yaml:"frames"`
}

// Label returns the display string for the given animation frame.
func (t Tag) Label(frame int) string {
	if n := len(t.Style.Frames); n > 0 {
		if frame < 0 {
			frame = -frame
		}
		return t.Style.Frames[frame%n]
	}
	if label := strings.TrimSpace(t.Display); label != "" {
		return label
	}
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return t.ID
}

func IDs(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.ID)
	}
	return out
}

func Names(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
