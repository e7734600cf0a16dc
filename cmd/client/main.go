package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:9001", "Address of the exchange server")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel', 'book', 'bbo', 'trades']")

	symbol := flag.String("symbol", "BTC-USD", "Trading pair symbol")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: 'market', 'limit', 'ioc', or 'fok'")
	priceStr := flag.String("price", "", "Limit price (omit for market orders)")
	qtyStr := flag.String("qty", "1", "Order quantity")
	orderID := flag.String("id", "", "Order id, required for 'cancel'")

	flag.Parse()

	client := &http.Client{}

	switch strings.ToLower(*action) {
	case "place":
		placeOrder(client, *server, *symbol, *sideStr, *typeStr, *priceStr, *qtyStr)
	case "cancel":
		if *orderID == "" {
			log.Fatal("Error: -id is required for cancellation")
		}
		cancelOrder(client, *server, *symbol, *orderID)
	case "book":
		getJSON(client, fmt.Sprintf("%s/v1/symbols/%s/book", *server, *symbol))
	case "bbo":
		getJSON(client, fmt.Sprintf("%s/v1/symbols/%s/bbo", *server, *symbol))
	case "trades":
		getJSON(client, fmt.Sprintf("%s/v1/trades?symbol=%s", *server, *symbol))
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

type submitRequest struct {
	Symbol   string           `json:"symbol"`
	Type     string           `json:"order_type"`
	Side     string           `json:"side"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

func placeOrder(client *http.Client, server, symbol, side, orderType, priceStr, qtyStr string) {
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil {
		log.Fatalf("invalid -qty %q: %v", qtyStr, err)
	}

	req := submitRequest{
		Symbol:   symbol,
		Type:     strings.ToLower(orderType),
		Side:     strings.ToLower(side),
		Quantity: qty,
	}
	if priceStr != "" {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			log.Fatalf("invalid -price %q: %v", priceStr, err)
		}
		req.Price = &price
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("failed to encode request: %v", err)
	}

	resp, err := client.Post(server+"/v1/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func cancelOrder(client *http.Client, server, symbol, orderID string) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/symbols/%s/orders/%s", server, symbol, orderID), nil)
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func getJSON(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	var pretty bytes.Buffer
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Printf("[%s] %s\n", resp.Status, pretty.String())
}
