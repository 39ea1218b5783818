package extraction

import (
	"encoding/json"
	"fmt"
)

// UserInstruction is the short user-facing message sent alongside the image.
const UserInstruction = "Extract the following."

const fence = "```"

// instructionPreamble is the controlling message for the model: the task
// statement plus one worked example of the target shape. BuildInstructions
// appends the caller's schema in a fenced block.
var instructionPreamble = fmt.Sprintf(`You are a world-class receipt processing expert. Your task is to accurately extract information from a receipt image, including line item totals, and provide it in a structured JSON format.

Here is an example of a desired JSON output:

%[1]sjson
{
  "merchant_name": "Example Store",
  "transaction_timestamp": "2023-01-01T12:34:56",
  "currency": "USD",
  "items": [
    {
      "name": "Item 1",
      "quantity": 2,
      "unit_price": 20.00,
      "total_price": 40.00,
      "category": "Food",
      "discounts": [
        {
          "description": "10%% off",
          "amount": 4.00
        }
      ]
    },
    {
      "name": "Item 2",
      "quantity": 1,
      "unit_price": 35.50,
      "total_price": 35.50,
      "category": "Beverage",
      "discounts": []
    }
  ],
  "subtotal": 75.50,
  "tax": 6.04,
  "fees": 0,
  "total": 81.54,
  "payment_method": "Credit Card",
  "receipt_id": "12345"
}
%[1]s

Please extract the information from the receipt image and provide it in the following JSON schema:
`, fence)

// BuildInstructions renders the instruction template with the given schema
// pretty-printed into it. A nil schema uses the built-in default. The output
// is deterministic for a given schema.
func BuildInstructions(schema Schema) (string, error) {
	schemaJSON := defaultSchemaJSON
	if schema != nil {
		rendered, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return "", fmt.Errorf("rendering schema: %w", err)
		}
		schemaJSON = string(rendered)
	}
	return instructionPreamble + "\n" + fence + "json\n" + schemaJSON + "\n" + fence + "\n", nil
}
