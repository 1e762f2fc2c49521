// Command apitest runs a smoke suite against a running Valens periods API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/valens-periods/internal/api"
	"github.com/zapponejosh/valens-periods/internal/periods"
)

// =============================================================================
// Response Types
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *api.ErrorInfo  `json:"error,omitempty"`
	status  int
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Valens Periods API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	id := tr.testCreateChart()
	if id != "" {
		tr.testActiveLookups(id)
		tr.testDeleteChart(id)
	}
	tr.testCalculate()
	tr.testValidation()

	tr.printSummary()
}

// sampleChart has its Afeta on Mars and a cycle length of 32.25 years.
func sampleChart() periods.RawChart {
	return periods.RawChart{
		Lunation: periods.RawPlacement{Sign: "Aries", Position: "0º00'"},
		Planets: map[string]periods.RawPlacement{
			"Saturn":  {Sign: "Capricorn", Position: "10º00'"},
			"Jupiter": {Sign: "Sagittarius", Position: "5º30'"},
			"Mars":    {Sign: "Aries", Position: "15º00'"},
			"Venus":   {Sign: "Taurus", Position: "2º00'"},
			"Mercury": {Sign: "Gemini", Position: "20º00'"},
			"Sun":     {Sign: "Gemini", Position: "8º00'"},
			"Moon":    {Sign: "Libra", Position: "12º00'"},
		},
	}
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.do("GET", "/health", nil)
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testCreateChart() string {
	tr.printSection("Create Chart Session")

	resp, err := tr.do("POST", "/api/v1/charts", sampleChart())
	if err != nil {
		tr.recordError("Create chart", err.Error())
		return ""
	}
	if resp.status != http.StatusCreated {
		tr.recordError("Create chart", fmt.Sprintf("HTTP %d, want 201", resp.status))
	}

	var data api.ChartResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.Report == nil {
		tr.recordError("Create chart", fmt.Sprintf("bad payload: %v", err))
		return ""
	}

	if data.Report.Afeta == periods.Mars && approx(data.Report.Length, 32.25) {
		tr.recordSuccess(fmt.Sprintf("Session %s: Afeta %s, cycle length %g", data.SessionID, data.Report.Afeta, data.Report.Length))
	} else {
		tr.recordError("Create chart", fmt.Sprintf("Afeta %s length %g, want Mars 32.25", data.Report.Afeta, data.Report.Length))
	}
	if tr.verbose {
		for _, c := range data.Report.Cycles {
			fmt.Printf("    Cycle %d (Afeta %s)\n", c.Number, c.Afeta)
			for _, row := range c.Rows {
				fmt.Printf("      - %-8s %-12s cumulative %g\n", row.Planet, row.Formatted, row.Display)
			}
		}
		fmt.Println()
	}
	return data.SessionID
}

func (tr *TestRunner) testActiveLookups(id string) {
	tr.printSection("Active Period Lookups")

	testCases := []struct {
		age    string
		cycle  int
		planet periods.Planet
	}{
		{"0", 1, periods.Mars},
		{"3.75", 1, periods.Mars},
		{"4", 1, periods.Venus},
		{"32.25", 2, periods.Venus},
		{"40", 2, periods.Mercury},
		{"64.5", 3, periods.Sun},
		{"120", 3, periods.Saturn},
	}

	for _, tc := range testCases {
		resp, err := tr.do("GET", "/api/v1/charts/"+id+"/active?age="+tc.age, nil)
		if err != nil {
			tr.recordError("Age "+tc.age, err.Error())
			continue
		}
		var data api.ActiveResponse
		if err := json.Unmarshal(resp.Data, &data); err != nil || data.Active == nil {
			tr.recordError("Age "+tc.age, fmt.Sprintf("bad payload: %v", err))
			continue
		}
		if data.Active.CycleNumber == tc.cycle && data.Active.Planet == tc.planet {
			tr.recordSuccess(fmt.Sprintf("Age %s: cycle %d, %s (subperiod %s)",
				tc.age, data.Active.CycleNumber, data.Active.Planet, data.Subperiods.Active))
		} else {
			tr.recordError("Age "+tc.age, fmt.Sprintf("got cycle %d %s, want cycle %d %s",
				data.Active.CycleNumber, data.Active.Planet, tc.cycle, tc.planet))
		}
	}

	resp, err := tr.do("GET", "/api/v1/charts/"+id+"/active?age=-1", nil)
	tr.expectError("Negative age", resp, err, http.StatusBadRequest, "INVALID_AGE")
}

func (tr *TestRunner) testDeleteChart(id string) {
	tr.printSection("Delete Chart Session")

	resp, err := tr.do("DELETE", "/api/v1/charts/"+id, nil)
	if err != nil {
		tr.recordError("Delete", err.Error())
		return
	}
	if !resp.Success {
		tr.recordError("Delete", fmt.Sprintf("HTTP %d", resp.status))
		return
	}
	tr.recordSuccess("Session deleted")

	resp, err = tr.do("GET", "/api/v1/charts/"+id, nil)
	tr.expectError("Get after delete", resp, err, http.StatusNotFound, "NOT_FOUND")
}

func (tr *TestRunner) testCalculate() {
	tr.printSection("Stateless Calculation")

	age := 100.0
	body := struct {
		periods.RawChart
		Age *float64 `json:"age"`
	}{sampleChart(), &age}

	resp, err := tr.do("POST", "/api/v1/calculate", body)
	if err != nil {
		tr.recordError("Calculate", err.Error())
		return
	}
	var report periods.Report
	if err := json.Unmarshal(resp.Data, &report); err != nil || report.Active == nil {
		tr.recordError("Calculate", fmt.Sprintf("bad payload: %v", err))
		return
	}
	if report.Active.CycleNumber == 3 && report.Active.Planet == periods.Sun && approx(report.Active.Elapsed, 3.25) {
		tr.recordSuccess(fmt.Sprintf("Age 100: cycle 3, Sun, elapsed %s", periods.ToYMD(report.Active.Elapsed)))
	} else {
		tr.recordError("Calculate", fmt.Sprintf("got cycle %d %s elapsed %g", report.Active.CycleNumber, report.Active.Planet, report.Active.Elapsed))
	}
}

func (tr *TestRunner) testValidation() {
	tr.printSection("Validation")

	chart := sampleChart()
	chart.Planets["Moon"] = periods.RawPlacement{Sign: "Libra", Position: "12"}
	resp, err := tr.do("POST", "/api/v1/calculate", chart)
	tr.expectError("Bad position", resp, err, http.StatusBadRequest, "VALIDATION_FAILED")

	chart = sampleChart()
	delete(chart.Planets, "Venus")
	resp, err = tr.do("POST", "/api/v1/charts", chart)
	tr.expectError("Missing planet", resp, err, http.StatusBadRequest, "VALIDATION_FAILED")
}

// =============================================================================
// Helpers
// =============================================================================

// do sends a request and decodes the envelope. Only transport and decode
// failures are returned as errors; API errors are left in the response.
func (tr *TestRunner) do(method, path string, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}

	httpResp, err := tr.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	apiResp.status = httpResp.StatusCode

	if !apiResp.Success && httpResp.StatusCode < 400 {
		return nil, fmt.Errorf("HTTP %d without success", httpResp.StatusCode)
	}
	if !apiResp.Success && apiResp.Error != nil && tr.verbose {
		fmt.Printf("    API error: %s (%s)\n", apiResp.Error.Message, apiResp.Error.Code)
	}
	return &apiResp, nil
}

func (tr *TestRunner) expectError(name string, resp *APIResponse, err error, status int, code string) {
	switch {
	case err != nil:
		tr.recordError(name, err.Error())
	case resp.Success:
		tr.recordError(name, "expected an error response")
	case resp.status != status:
		tr.recordError(name, fmt.Sprintf("HTTP %d, want %d", resp.status, status))
	case resp.Error == nil || resp.Error.Code != code:
		tr.recordError(name, fmt.Sprintf("error code %v, want %s", resp.Error, code))
	default:
		tr.recordSuccess(fmt.Sprintf("%s rejected with %s", name, code))
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All tests passed! ✓")
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	verbose := flag.Bool("v", false, "Verbose output (show cycle tables)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
