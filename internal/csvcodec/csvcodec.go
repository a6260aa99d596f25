// Package csvcodec serializes client lists to CSV and parses them back.
//
// The column schema is fixed and positional. Decode follows a
// skip-and-continue policy: a malformed line is dropped and counted, it
// never fails the whole import.
package csvcodec

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/gestorvip/fila/internal/models"
)

// Columns is the fixed export schema, in order. The first four are required
// on import; the rest are tolerated as missing.
var Columns = []string{"id", "name", "phone", "created_at", "status", "called_at"}

const minRequiredFields = 4

const bom = "\uFEFF"

// Options configure the wire format. Callers must use the same delimiter for
// a round trip.
type Options struct {
	// Delimiter between fields, ',' or ';'. Zero value means ';'.
	Delimiter rune
	// BOM prefixes the output with a byte-order marker for spreadsheets.
	BOM bool
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ';'
	}
	return o.Delimiter
}

// Encode renders records as CSV text with a header row. The name field is
// always quoted, inner quotes doubled; every other field is delimiter-safe
// by construction.
func Encode(clients []models.Client, opts Options) string {
	delim := string(opts.delimiter())

	var b strings.Builder
	if opts.BOM {
		b.WriteString(bom)
	}
	b.WriteString(strings.Join(Columns, delim))
	b.WriteString("\n")

	for _, c := range clients {
		calledAt := ""
		if c.CalledAt != nil {
			calledAt = strconv.FormatInt(*c.CalledAt, 10)
		}
		fields := []string{
			c.ID,
			`"` + strings.ReplaceAll(c.Name, `"`, `""`) + `"`,
			c.Phone,
			strconv.FormatInt(c.CreatedAt, 10),
			string(c.Status),
			calledAt,
		}
		b.WriteString(strings.Join(fields, delim))
		b.WriteString("\n")
	}

	return b.String()
}

// Decode parses CSV text back into records, dropping the header line. It
// returns the recoverable records and the number of lines skipped. Lines
// with broken quoting, fewer than the required fields or an unparseable
// creation timestamp are skipped; missing trailing fields default to the
// zero state (pending, no calledAt).
func Decode(text string, opts Options) ([]models.Client, int) {
	text = strings.TrimPrefix(text, bom)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var clients []models.Client
	skipped := 0

	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitLine(line, opts.delimiter())
		if err != nil || len(fields) < minRequiredFields {
			skipped++
			continue
		}

		createdAt, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			skipped++
			continue
		}

		c := models.Client{
			ID:        strings.TrimSpace(fields[0]),
			Name:      fields[1],
			Phone:     strings.TrimSpace(fields[2]),
			CreatedAt: createdAt,
			Status:    models.StatusPending,
		}

		if c.ID == "" || c.Name == "" || c.Phone == "" {
			skipped++
			continue
		}

		if len(fields) > 4 {
			if st := models.Status(strings.TrimSpace(fields[4])); st.Valid() {
				c.Status = st
			}
		}
		if len(fields) > 5 && strings.TrimSpace(fields[5]) != "" {
			if calledAt, err := strconv.ParseInt(strings.TrimSpace(fields[5]), 10, 64); err == nil {
				c.CalledAt = &calledAt
			}
		}

		clients = append(clients, c)
	}

	return clients, skipped
}

// splitLine is a quoted-field-aware split of a single record. Each line is
// parsed independently so one broken line cannot poison the rest.
func splitLine(line string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	return r.Read()
}

// Filename builds the export attachment name: <prefix>_<ISO-date>.csv.
func Filename(prefix string, now time.Time) string {
	return prefix + "_" + now.Format("2006-01-02") + ".csv"
}
