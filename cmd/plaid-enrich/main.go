// Command plaid-enrich fires a single transaction-enrichment request at the
// Plaid API and prints the status, headers, and body. It exists to sanity
// check credentials and the enrichment payload shape.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/ppongpeauk/tabbit/internal/enrich"
)

func main() {
	godotenv.Load()

	fs := ff.NewFlagSet("plaid-enrich")
	var (
		clientID = fs.StringLong("client-id", "", "Plaid client ID (or set PLAID_CLIENT_ID env var)")
		secret   = fs.StringLong("secret", "", "Plaid secret (or set PLAID_SECRET env var)")
		baseURL  = fs.StringLong("base-url", enrich.DefaultBaseURL, "Plaid environment base URL")
	)

	if err := ff.Parse(fs, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	id := *clientID
	if id == "" {
		id = os.Getenv("PLAID_CLIENT_ID")
	}
	sec := *secret
	if sec == "" {
		sec = os.Getenv("PLAID_SECRET")
	}

	client, err := enrich.NewClient(id, sec, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	transactions := []enrich.Transaction{
		{
			ID:              "6135818adda16500147e7c1d",
			Description:     "Uniqlo",
			Amount:          84.47,
			Direction:       "OUTFLOW",
			ISOCurrencyCode: "USD",
			Location:        &enrich.Location{City: "McLean", Region: "VA"},
			DatePosted:      "2022-07-05",
		},
	}

	fmt.Println("Making request to Plaid Transactions Enrich API...")
	resp, err := client.EnrichTransactions(context.Background(), "depository", transactions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Headers:")
	for key, values := range resp.Headers {
		for _, value := range values {
			fmt.Printf("  %s: %s\n", key, value)
		}
	}
	fmt.Println("Response Body:")
	fmt.Println(string(resp.Body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		os.Exit(1)
	}
	fmt.Println("Request successful!")
}
