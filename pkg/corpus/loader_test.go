package corpus

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`[
  {"section": "1", "title": "Licence", "description": "Driving without a licence is an offence."},
  {"section": "2", "title": "Scooter", "description": "Scooters under 50cc require a moped licence."}
]`)

	records, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{Section: "1", Title: "Licence", Description: "Driving without a licence is an offence."}, records[0])
	assert.Equal(t, "2", records[1].Section)
	assert.Equal(t, "2 Scooter Scooters under 50cc require a moped licence.", records[1].Text())
}

func TestParse_EmptyArray(t *testing.T) {
	records, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_ExtraFieldsIgnored(t *testing.T) {
	records, err := Parse([]byte(`[{"section":"7","title":"t","description":"d","chapter":"II"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].Section)
}

func TestParse_ByteOrderMark(t *testing.T) {
	records, err := Parse([]byte("\xef\xbb\xbf" + `[{"section":"1","title":"t","description":"d"}]`))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"invalid json", `[{"section": "1"`, ""},
		{"empty document", ``, ""},
		{"not an array", `{"section":"1","title":"t","description":"d"}`, "want array"},
		{"element not object", `["section 1"]`, "element 0 is string"},
		{"missing section", `[{"title":"t","description":"d"}]`, `missing field "section"`},
		{"missing title", `[{"section":"1","description":"d"}]`, `missing field "title"`},
		{"missing description", `[{"section":"1","title":"t"}]`, `missing field "description"`},
		{"non-string field", `[{"section":1,"title":"t","description":"d"}]`, `field "section" is number`},
		{"null field", `[{"section":"1","title":null,"description":"d"}]`, `field "title" is null`},
		{"second element bad", `[{"section":"1","title":"t","description":"d"},{"section":"2"}]`, "element 1"},
		{"invalid utf8", "[{\"section\":\"1\",\"title\":\"\xff\",\"description\":\"d\"}]", "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Parse([]byte(tt.input))
			require.ErrorIs(t, err, ErrMalformedInput)
			assert.Nil(t, records)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"section":"9","title":"t","description":"d"}]`), 0o600))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "9", records[0].Section)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedFileNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), path)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"data/mva.json": &fstest.MapFile{Data: []byte(`[{"section":"3","title":"Licence","description":"d"}]`)},
	}

	records, err := LoadFS(fsys, "data/mva.json")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Licence", records[0].Title)
}

func TestSample(t *testing.T) {
	records, err := Sample()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for i, r := range records {
		assert.NotEmpty(t, r.Section, "record %d section", i)
		assert.NotEmpty(t, r.Title, "record %d title", i)
		assert.NotEmpty(t, r.Description, "record %d description", i)
	}
}

func TestTexts(t *testing.T) {
	records := []Record{
		{Section: "1", Title: "A", Description: "x"},
		{Section: "2", Title: "B", Description: "y"},
	}
	assert.Equal(t, []string{"1 A x", "2 B y"}, Texts(records))
	assert.Empty(t, Texts(nil))
}
