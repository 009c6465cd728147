// Package main implements the actionctl CLI for manual operations against the actiond HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the actiond HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "actionctl",
	Short: "CLI for actiond HTTP server operations",
	Long: `actionctl is a command-line interface for interacting with the actiond HTTP server.
It provides commands for extracting action items from notes, listing items and notes,
marking items done, and checking server health.`,
	Version: version,
}

var (
	saveNote   bool
	noteFilter int64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "actiond server URL")

	extractCmd.Flags().BoolVar(&saveNote, "save-note", false, "persist the input text as a note")
	itemsCmd.Flags().Int64Var(&noteFilter, "note", 0, "only show items belonging to this note id")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(healthCmd)
}

// extractCmd extracts action items from a file or stdin
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract action items from a file or stdin",
	Long: `Extract action items from a file or stdin using the actiond server.

Examples:
  # Extract from a file
  actionctl extract meeting-notes.txt

  # Extract from stdin
  cat notes.txt | actionctl extract -

  # Persist the note alongside the extracted items
  actionctl extract --save-note meeting-notes.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// itemsCmd lists action items
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List action items",
	Long: `List action items stored on the actiond server.

Examples:
  # List everything
  actionctl items

  # Only items of one note
  actionctl items --note 3`,
	RunE: runItems,
}

// doneCmd marks an item done or not done
var doneCmd = &cobra.Command{
	Use:   "done <id> [true|false]",
	Short: "Mark an action item done (or not done)",
	Long: `Mark an action item as done. Pass false to reopen it.

Examples:
  actionctl done 7
  actionctl done 7 false`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDone,
}

// notesCmd lists notes with their items
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List saved notes with their action items",
	RunE:  runNotes,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check actiond server health",
	Long: `Check the health status of the actiond HTTP server.

Examples:
  # Check health
  actionctl health

  # Check health on a different server
  actionctl health --server http://localhost:8080`,
	RunE: runHealth,
}

// ExtractRequest matches internal/http/server.go ExtractRequest
type ExtractRequest struct {
	Text     string `json:"text"`
	SaveNote bool   `json:"save_note"`
}

// ActionItem matches internal/store ActionItem
type ActionItem struct {
	ID        int64  `json:"id"`
	NoteID    *int64 `json:"note_id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

// ExtractResponse matches internal/http/server.go ExtractResponse
type ExtractResponse struct {
	NoteID *int64       `json:"note_id"`
	Items  []ActionItem `json:"items"`
}

// DoneResponse matches internal/http/server.go DoneResponse
type DoneResponse struct {
	ID   int64 `json:"id"`
	Done bool  `json:"done"`
}

// NoteWithItems matches internal/items NoteWithItems
type NoteWithItems struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at"`
	Items     []ActionItem `json:"items"`
}

// HealthResponse matches internal/http/server.go HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

func newClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// doJSON performs a request and decodes a JSON response into out.
func doJSON(method, url string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := newClient().Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// runExtract handles the extract command
func runExtract(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	if len(content) == 0 {
		return fmt.Errorf("no text to extract from")
	}

	var extractResp ExtractResponse
	url := fmt.Sprintf("%s/action-items/extract", serverURL)
	req := ExtractRequest{Text: string(content), SaveNote: saveNote}
	if err := doJSON(http.MethodPost, url, req, &extractResp); err != nil {
		return err
	}

	if extractResp.NoteID != nil {
		fmt.Fprintf(os.Stderr, "[actionctl] Saved note %d\n", *extractResp.NoteID)
	}
	if len(extractResp.Items) == 0 {
		fmt.Println("No action items found.")
		return nil
	}
	for _, item := range extractResp.Items {
		fmt.Printf("%s\n", formatItem(item))
	}

	return nil
}

// runItems handles the items command
func runItems(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/action-items", serverURL)
	if cmd.Flags().Changed("note") {
		url = fmt.Sprintf("%s?note_id=%d", url, noteFilter)
	}

	var items []ActionItem
	if err := doJSON(http.MethodGet, url, nil, &items); err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No action items.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s\n", formatItem(item))
	}

	return nil
}

// runDone handles the done command
func runDone(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	done := true
	if len(args) == 2 {
		done, err = strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid done value %q (want true or false)", args[1])
		}
	}

	var doneResp DoneResponse
	url := fmt.Sprintf("%s/action-items/%d/done", serverURL, id)
	if err := doJSON(http.MethodPost, url, map[string]bool{"done": done}, &doneResp); err != nil {
		return err
	}

	state := "done"
	if !doneResp.Done {
		state = "open"
	}
	fmt.Printf("Item %d marked %s\n", doneResp.ID, state)

	return nil
}

// runNotes handles the notes command
func runNotes(cmd *cobra.Command, args []string) error {
	var notes []NoteWithItems
	url := fmt.Sprintf("%s/notes", serverURL)
	if err := doJSON(http.MethodGet, url, nil, &notes); err != nil {
		return err
	}

	if len(notes) == 0 {
		fmt.Println("No notes.")
		return nil
	}
	for _, note := range notes {
		fmt.Printf("Note %d (%s)\n", note.ID, note.CreatedAt)
		for _, item := range note.Items {
			fmt.Printf("  %s\n", formatItem(item))
		}
	}

	return nil
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}

// formatItem renders one item as a checklist line.
func formatItem(item ActionItem) string {
	box := "[ ]"
	if item.Done {
		box = "[x]"
	}
	return fmt.Sprintf("%s #%d %s", box, item.ID, item.Text)
}
