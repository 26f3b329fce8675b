package rowschema

import (
	"strings"
	"testing"
)

func TestValidateRows_Valid(t *testing.T) {
	raw := []byte(`[
		{
			"title":"Tesla cuts Model Y prices",
			"url":"https://example.com/tesla",
			"source":"Electrek",
			"category":"EV",
			"published":"Mon, 03 Jun 2024 10:00:00 GMT",
			"fetched_at":"2024-06-03T10:05:00+00:00",
			"companies":["Tesla"]
		},
		{
			"title":"Untagged row",
			"url":"https://example.com/plain",
			"companies":null
		}
	]`)

	rows, err := ValidateRows(raw)
	if err != nil {
		t.Fatalf("expected rows to be valid, got error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Source != "Electrek" || len(rows[0].Companies) != 1 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Companies != nil {
		t.Fatalf("expected null companies to stay unextracted, got %#v", rows[1].Companies)
	}
}

func TestValidateRows_EmptyCompaniesStaysEmpty(t *testing.T) {
	rows, err := ValidateRows([]byte(`[{"title":"x","url":"https://example.com/x","companies":[]}]`))
	if err != nil {
		t.Fatalf("expected rows to be valid, got error: %v", err)
	}
	if rows[0].Companies == nil || len(rows[0].Companies) != 0 {
		t.Fatalf("expected explicit empty companies list, got %#v", rows[0].Companies)
	}
}

func TestValidateRows_MissingURL(t *testing.T) {
	_, err := ValidateRows([]byte(`[{"title":"No link"}]`))
	if err == nil {
		t.Fatalf("expected validation to fail for missing url")
	}
}

func TestValidateRows_WhitespaceURL(t *testing.T) {
	_, err := ValidateRows([]byte(`[{"title":"Blank link","url":"   "}]`))
	if err == nil {
		t.Fatalf("expected validation to fail for whitespace-only url")
	}
	if !strings.Contains(err.Error(), "rows[0]: url must not be empty") {
		t.Fatalf("expected url semantic error, got: %v", err)
	}
}

func TestValidateRows_CompaniesMustBeStrings(t *testing.T) {
	_, err := ValidateRows([]byte(`[{"title":"Bad","url":"https://example.com/b","companies":[42]}]`))
	if err == nil {
		t.Fatalf("expected validation to fail for non-string company")
	}
}

func TestValidateRows_NotAnArray(t *testing.T) {
	_, err := ValidateRows([]byte(`{"title":"x","url":"https://example.com"}`))
	if err == nil {
		t.Fatalf("expected validation to fail for a top-level object")
	}
}

func TestValidateRows_TrailingContent(t *testing.T) {
	_, err := ValidateRows([]byte(`[] []`))
	if err == nil {
		t.Fatalf("expected validation to fail for trailing content")
	}
	if !strings.Contains(err.Error(), "trailing content") {
		t.Fatalf("expected trailing content error, got: %v", err)
	}
}

func TestValidateRows_Empty(t *testing.T) {
	if _, err := ValidateRows([]byte("   ")); err == nil {
		t.Fatalf("expected validation to fail for empty payload")
	}
}
