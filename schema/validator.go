// Package rowschema validates JSON exports of article rows before they are
// imported or analyzed.
package rowschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/trendscope/internal/article"
)

//go:embed article_rows.schema.json
var articleRowsSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateRows checks a JSON array of rows against the embedded schema and
// returns the decoded rows.
func ValidateRows(raw []byte) ([]article.Row, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode rows JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize rows JSON: %w", err)
	}

	var rows []article.Row
	if err := json.Unmarshal(normalized, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}

	for i := range rows {
		if err := validateSemantics(&rows[i]); err != nil {
			return nil, fmt.Errorf("rows[%d]: %w", i, err)
		}
	}

	return rows, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("article_rows.schema.json", strings.NewReader(articleRowsSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("article_rows.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(row *article.Row) error {
	if row == nil {
		return fmt.Errorf("row is nil")
	}

	trimmed := strings.TrimSpace(row.URL)
	if trimmed == "" {
		return fmt.Errorf("url must not be empty")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("url is not a valid URI: %w", err)
	}

	for i, company := range row.Companies {
		if strings.TrimSpace(company) == "" {
			return fmt.Errorf("companies[%d] must not be empty", i)
		}
	}
	return nil
}
