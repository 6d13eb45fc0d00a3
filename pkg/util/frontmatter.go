package util

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter extracts YAML frontmatter from content.
// Returns the parsed YAML as a map, the body after the frontmatter, and
// whether frontmatter was present.
func ParseFrontmatter(content string) (yamlData map[string]interface{}, body string, hasFrontmatter bool) {
	if content == "" {
		return nil, content, false
	}

	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") {
		return nil, content, false
	}

	rest := content[len(frontmatterDelimiter)+1:]
	endIndex := strings.Index(rest, "\n"+frontmatterDelimiter)
	if endIndex == -1 {
		return nil, content, false
	}

	yamlContent := rest[:endIndex]
	body = rest[endIndex+len("\n"+frontmatterDelimiter):]
	if strings.HasPrefix(body, "\n") {
		body = body[1:]
	}

	yamlData = make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(yamlContent), &yamlData); err != nil {
		// Malformed YAML is treated as plain body content.
		return nil, content, false
	}

	return yamlData, body, true
}

// ReconstructContent rebuilds content with frontmatter prepended.
func ReconstructContent(yamlData map[string]interface{}, body string) string {
	if len(yamlData) == 0 {
		return body
	}

	yamlBytes, err := yaml.Marshal(yamlData)
	if err != nil {
		return body
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}
