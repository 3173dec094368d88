package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Contributor holds display metadata for a contributor id.
type Contributor struct {
	DisplayName string `yaml:"displayName" json:"displayName"`
}

// Directory resolves contributor ids to display names.
type Directory map[string]Contributor

// LoadDirectory reads a contributor directory. YAML is a superset of JSON,
// so both file formats are accepted.
func LoadDirectory(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contributor directory: %w", err)
	}
	dir := Directory{}
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parsing contributor directory: %w", err)
	}
	return dir, nil
}

// DisplayName returns the contributor's display name, falling back to the id.
func (d Directory) DisplayName(id string) string {
	key := strings.TrimSpace(id)
	if key == "" {
		return id
	}
	if c, ok := d[key]; ok && c.DisplayName != "" {
		return c.DisplayName
	}
	return key
}

// noGenre stands in for an empty genre in captions.
const noGenre = "—"

// Caption returns the three caption lines for item: title, contributor display
// name and genre.
func (d Directory) Caption(item *Item) [3]string {
	genre := item.Genre
	if genre == "" {
		genre = noGenre
	}
	return [3]string{
		"Title: " + item.Title,
		"By: " + d.DisplayName(item.Contributor),
		"Genre: " + genre,
	}
}
