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

const (
	baseURL = "http://localhost:3000/api"
)

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
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{} // No timeout, generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Consultation API Flow Test\n")

	// 1. First consult without a session id (engine should create one)
	color.Yellow("\n1. Consult (new session)")
	resp, body, err := sendRequest("POST", "/consultation/v1/consult", map[string]interface{}{
		"query": "What does the pricing overview recording say about the tiers?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var consultResp map[string]interface{}
	json.Unmarshal(body, &consultResp)
	prettyPrint(consultResp)

	data, _ := consultResp["data"].(map[string]interface{})
	sessionID, _ := data["session_id"].(string)
	if sessionID == "" {
		color.Red("No session_id returned, aborting")
		os.Exit(1)
	}

	// 2. Follow-up in the same session
	color.Yellow("\n2. Consult (follow-up in session %s)", sessionID)
	resp, body, err = sendRequest("POST", "/consultation/v1/consult", map[string]interface{}{
		"query":      "And which tier includes dedicated support?",
		"session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &consultResp)
	prettyPrint(consultResp)

	// 3. Session status
	color.Yellow("\n3. Session Status")
	resp, body, err = sendRequest("GET", "/consultation/v1/status/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statusResp map[string]interface{}
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 4. Session history
	color.Yellow("\n4. Session History")
	resp, body, err = sendRequest("GET", "/consultation/v1/history/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	prettyPrint(historyResp)

	// 5. Direct audio search
	color.Yellow("\n5. Audio Search")
	resp, body, err = sendRequest("POST", "/audio/v1/search", map[string]interface{}{
		"query": "pricing tiers",
		"top_k": 3,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var searchResp map[string]interface{}
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 6. Reset the session
	color.Yellow("\n6. Reset Session")
	resp, body, err = sendRequest("POST", "/consultation/v1/reset", map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var resetResp map[string]interface{}
	json.Unmarshal(body, &resetResp)
	prettyPrint(resetResp)

	// 7. Old session should now be rejected
	color.Yellow("\n7. Consult on reset session (expect 404)")
	resp, body, err = sendRequest("POST", "/consultation/v1/consult", map[string]interface{}{
		"query":      "Are you still there?",
		"session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode == http.StatusNotFound {
		color.Green("Status: %s (as expected)", resp.Status)
	} else {
		color.Red("Unexpected status: %s", resp.Status)
	}
	var errResp map[string]interface{}
	json.Unmarshal(body, &errResp)
	prettyPrint(errResp)

	color.Cyan("\n✅ Flow test completed")
}
