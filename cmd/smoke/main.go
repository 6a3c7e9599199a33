package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/agenthands/linkgraph/internal/core/model"
)

// Runs against a live server and checks the endpoints the page depends on.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health...")
	if _, ok := send(client, http.MethodGet, *baseURL+"/healthz", "", nil); !ok {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Graph document from configured source...")
	body, ok := send(client, http.MethodGet, *baseURL+"/jsonData", "", nil)
	if !ok || !checkDocument(body) {
		fmt.Println("FAILED: jsonData")
		os.Exit(1)
	}
	fmt.Println("PASSED: jsonData")

	fmt.Println("3. Graph document from upload...")
	csv := []byte("source,target,value\n1,2,5\n2,3,7\n")
	body, ok = send(client, http.MethodPost, *baseURL+"/graph", "text/csv", csv)
	if !ok || !checkDocument(body) {
		fmt.Println("FAILED: upload")
		os.Exit(1)
	}
	fmt.Println("PASSED: upload")
}

// checkDocument verifies every link endpoint is present as a node.
func checkDocument(body []byte) bool {
	var doc model.GraphDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		fmt.Printf("Invalid document: %v\n", err)
		return false
	}
	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids[n.ID] = true
	}
	for _, l := range doc.Links {
		if !ids[l.Source] || !ids[l.Target] {
			fmt.Printf("Link %s -> %s has no matching node\n", l.Source, l.Target)
			return false
		}
	}
	fmt.Printf("Document: %d nodes, %d links\n", len(doc.Nodes), len(doc.Links))
	return true
}

func send(client *http.Client, method, url, contentType string, payload []byte) ([]byte, bool) {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	return respBody, true
}
