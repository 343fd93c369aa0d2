package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, domain string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if domain != "" {
		req.Header.Set("X-Tenant-Domain", domain)
	}

	client := &http.Client{} // No timeout, chat turns can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	domain := os.Getenv("TEST_TENANT_DOMAIN")
	if domain == "" {
		domain = "demo-store.example.com"
	}

	color.Cyan("🚀 Starting Chat Widget API Test (tenant: %s)\n", domain)

	// 1. Ingest a test page
	color.Yellow("\n[PAGE] 1. Upsert shipping policy page")
	pageReq := map[string]interface{}{
		"url":     "https://" + domain + "/shipping-policy",
		"title":   "Shipping Policy",
		"content": "We ship worldwide. Standard delivery takes 3-5 business days. Free shipping over $50.",
	}
	resp, body, err := sendRequest("POST", "/page/v1", domain, pageReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var pageResp map[string]interface{}
	json.Unmarshal(body, &pageResp)
	prettyPrint(pageResp)

	// 2. Semantic search
	color.Yellow("\n[PAGE] 2. Semantic search for 'how long does delivery take'")
	resp, body, err = sendRequest("GET", "/page/v1/semantic-search?query=how+long+does+delivery+take", domain, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var searchResp map[string]interface{}
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 3. Create a chat session
	color.Yellow("\n[CHAT] 3. Create session")
	sessReq := map[string]interface{}{
		"visitor_id": "smoke-test-visitor",
	}
	resp, body, err = sendRequest("POST", "/chat/v1/session", domain, sessReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sessResp struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(body, &sessResp)
	prettyPrint(sessResp)

	if sessResp.Data.Id == "" {
		color.Red("No session id returned, aborting")
		os.Exit(1)
	}

	// 4. Send a chat turn
	color.Yellow("\n[CHAT] 4. Ask about shipping")
	chatReq := map[string]interface{}{
		"chat_session_id": sessResp.Data.Id,
		"chat":            "Do you offer free shipping?",
	}
	resp, body, err = sendRequest("POST", "/chat/v1/send", domain, chatReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	prettyPrint(chatResp)

	// 5. Fetch history
	color.Yellow("\n[CHAT] 5. Fetch history")
	resp, body, err = sendRequest("GET", "/chat/v1/session/"+sessResp.Data.Id+"/history", domain, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var histResp map[string]interface{}
	json.Unmarshal(body, &histResp)
	prettyPrint(histResp)

	color.Cyan("\n✅ Smoke test finished")
}
