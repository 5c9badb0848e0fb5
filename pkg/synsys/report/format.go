package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	tableHeader = "| Palavra Original | Frequência | Sinônimos Sugeridos |\n"
	tableRule   = "| :--- | :--- | :--- |\n"
	tableEmpty  = "| Nenhuma palavra significativa repetida. | - | - |"
)

// FormatTable renders entries as a Markdown table for console output.
func FormatTable(entries []Entry) string {
	if len(entries) == 0 {
		return "\n" + tableHeader + tableRule + tableEmpty
	}

	var b strings.Builder
	b.WriteString(tableHeader)
	b.WriteString(tableRule)
	for _, e := range entries {
		fmt.Fprintf(&b, "| **%s** | %d | %s |\n", e.Word, e.Frequency, e.Synonyms)
	}
	return b.String()
}

// FormatJSON renders entries as an indented JSON array. Non-ASCII text and
// HTML-significant characters are written as is.
func FormatJSON(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
