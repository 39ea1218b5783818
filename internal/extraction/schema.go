package extraction

import (
	"encoding/json"
	"fmt"
	"os"
)

// Schema describes the desired shape of the extracted receipt data: field
// names mapped to type placeholders, with nested sequences for line items and
// per-item discounts. It is rendered as text into the prompt, never enforced
// against the model's reply.
type Schema map[string]any

// defaultSchemaJSON is the schema embedded in the prompt when the caller
// supplies none. Kept as a literal so the rendered field order stays stable.
const defaultSchemaJSON = `{
  "merchant_name": "string",
  "transaction_timestamp": "string",
  "currency": "USD",
  "items": [
    {
      "name": "string",
      "quantity": "number",
      "unit_price": "number",
      "total_price": "number",
      "category": "string",
      "discounts": [
        {
          "description": "string",
          "amount": "number"
        }
      ]
    }
  ],
  "subtotal": "number",
  "tax": "number",
  "fees": "number",
  "total": "number",
  "payment_method": "string",
  "receipt_id": "string"
}`

// LoadSchema reads a caller-supplied schema from a JSON file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	return schema, nil
}
