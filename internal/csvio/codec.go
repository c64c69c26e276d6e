// Package csvio implements the requirements CSV exchange format: a fixed
// nine-column header, every field double-quoted with "" escaping, tags
// joined with ";". Import is deliberately lenient because the files are
// user-authored; a malformed row degrades, it never aborts the batch.
package csvio

import (
	"fmt"
	"strings"
	"time"

	"rtmd/pkg/schema"
)

// Header is the exact column order of the exchange format.
const Header = "reqId,section,description,status,classification,priority,owner,parentRequirement,tags"

// Export encodes the ordered sequence. Fields are always quoted, embedded
// quotes doubled, null parents empty. Newlines inside a description are
// emitted literally inside the quoted field; the quoting keeps the row
// valid for RFC4180 readers. The internal ID is never exported.
func Export(requirements []schema.Requirement) string {
	var sb strings.Builder
	sb.WriteString(Header)
	for _, r := range requirements {
		parent := ""
		if r.ParentRequirement != nil {
			parent = *r.ParentRequirement
		}
		fields := []string{
			r.ReqID,
			string(r.Section),
			r.Description,
			string(r.Status),
			string(r.Classification),
			string(r.Priority),
			r.Owner,
			parent,
			strings.Join(r.Tags, ";"),
		}
		sb.WriteByte('\n')
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(f))
		}
	}
	return sb.String()
}

// ExportFilename returns the download name for an export taken at t,
// e.g. requirements_2026-08-29.csv.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("requirements_%s.csv", t.Format("2006-01-02"))
}

// Import decodes CSV text into requirement rows. The first non-blank
// line is discarded as the header without validation. Rows whose
// description is blank after trimming are silently dropped and counted.
// Returned rows carry no internal ID; the store assigns identity on
// append.
func Import(text string) (rows []schema.Requirement, skipped int) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, 0
	}

	for _, line := range lines[1:] {
		fields := splitLine(line)
		get := func(i int) string {
			if i < len(fields) {
				return fields[i]
			}
			return ""
		}

		description := get(2)
		if strings.TrimSpace(description) == "" {
			skipped++
			continue
		}

		row := schema.Requirement{
			ReqID:          get(0),
			Section:        schema.Section(get(1)),
			Description:    description,
			Status:         schema.Status(get(3)),
			Classification: schema.Classification(get(4)),
			Priority:       schema.Priority(get(5)),
			Owner:          get(6),
		}
		if parent := get(7); parent != "" {
			row.ParentRequirement = &parent
		}
		if tags := get(8); tags != "" {
			for _, tag := range strings.Split(tags, ";") {
				if tag != "" {
					row.Tags = append(row.Tags, tag)
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// splitLines tolerates CRLF input and drops blank lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitLine tokenizes one row. A field is either a double-quoted run
// (with "" as an escaped quote) or an unquoted run; a trailing comma
// yields a trailing empty field. A quote left unclosed swallows the rest
// of the line as a single field rather than failing the row.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		ch := line[i]
		if inQuotes {
			if ch == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"')
					i += 2
					continue
				}
				inQuotes = false
				i++
				continue
			}
			cur.WriteByte(ch)
			i++
			continue
		}
		switch ch {
		case '"':
			inQuotes = true
		case ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
		i++
	}
	return append(fields, cur.String())
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
