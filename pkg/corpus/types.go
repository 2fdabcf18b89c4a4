package corpus

import "strings"

// Record is a single statute section as it appears in the corpus file.
// Its position in the loaded slice is its identity.
type Record struct {
	Section     string // Section identifier, e.g. "3" or "194D"
	Title       string // Short heading of the section
	Description string // Body text of the section
}

// Text returns the string that gets embedded for this record.
func (r Record) Text() string {
	return strings.Join([]string{r.Section, r.Title, r.Description}, " ")
}

// Texts returns Text() for every record, in order.
func Texts(records []Record) []string {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text()
	}
	return texts
}
