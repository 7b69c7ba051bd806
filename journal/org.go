package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FormatEntryOrg renders an Entry as an Org-mode block with the structured
// facts in a PROPERTIES drawer and the raw request/result as JSON blocks.
func FormatEntryOrg(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s: %s (%s)\n", e.Kind, e.Symbol, shortID(e.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", e.ID)
	fmt.Fprintf(&b, ":KIND: %s\n", e.Kind)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", e.Symbol)
	fmt.Fprintf(&b, ":CREATED: %s\n", e.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":SUMMARY: %s\n", e.Summary)
	b.WriteString(":END:\n\n")

	b.WriteString("*** Request\n#+begin_src json\n")
	b.WriteString(indentJSON(e.Request))
	b.WriteString("\n#+end_src\n\n")
	b.WriteString("*** Result\n#+begin_src json\n")
	b.WriteString(indentJSON(e.Result))
	b.WriteString("\n#+end_src\n")
	return b.String()
}

// FormatEntriesOrg renders an Org table with one row per entry.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	b.WriteString("| id | created | kind | symbol | summary |\n")
	b.WriteString("|----+---------+------+--------+---------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			shortID(e.ID),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Kind,
			e.Symbol,
			strings.ReplaceAll(e.Summary, "|", "/"),
		)
	}
	return b.String()
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
