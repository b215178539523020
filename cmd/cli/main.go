package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"novelhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type bookListResponse struct {
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Items  []models.BookSummary `json:"items"`
}

func main() {
	global := flag.NewFlagSet("novelhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 60 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "books":
		handleBooks(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "queue":
		handleQueue(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "progress":
		handleProgress(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "sync":
		handleSync(sub, args[2:])
	case "notify":
		handleNotify(*baseURL, sub, args[2:])
	case "chat":
		handleChat(*baseURL, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: novelhub auth <login|register|logout>")
	}
}

func handleBooks(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "search":
		fs := flag.NewFlagSet("books search", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		passed := fs.String("passed", "", "filter on validation outcome (true/false)")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/books")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *passed != "" {
			qv.Set("passed", *passed)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp bookListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("books show", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("book id is required")
		}

		var resp models.Book
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/books/"+url.PathEscape(*id), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "report":
		fs := flag.NewFlagSet("books report", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("book id is required")
		}

		var resp models.ValidationReport
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/books/"+url.PathEscape(*id)+"/report", "", nil, &resp); err != nil {
			log.Fatalf("report failed: %v", err)
		}
		printJSON(resp)
	case "normalize":
		fs := flag.NewFlagSet("books normalize", flag.ExitOnError)
		file := fs.String("file", "", "raw book JSON file")
		_ = fs.Parse(args)
		if *file == "" {
			log.Fatal("file is required")
		}
		token := mustToken(tokenPath)

		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}

		var resp map[string]any
		if err := doRaw(ctx, client, http.MethodPost, baseURL+"/books/normalize", token, raw, &resp); err != nil {
			log.Fatalf("normalize failed: %v", err)
		}
		printJSON(resp)
	case "update-chapter":
		fs := flag.NewFlagSet("books update-chapter", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		chapterID := fs.String("chapter", "", "chapter id")
		title := fs.String("title", "", "new title")
		specialType := fs.String("special-type", "", "new special type")
		_ = fs.Parse(args)
		if *id == "" || *chapterID == "" {
			log.Fatal("book id and chapter id are required")
		}
		token := mustToken(tokenPath)

		fields := map[string]any{}
		if *title != "" {
			fields["title"] = *title
		}
		if *specialType != "" {
			fields["special_type"] = *specialType
		}

		endpoint := baseURL + "/books/" + url.PathEscape(*id) + "/chapters/" + url.PathEscape(*chapterID)
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPut, endpoint, token, map[string]any{"fields": fields}, &resp); err != nil {
			log.Fatalf("update failed: %v", err)
		}
		printJSON(resp)
	case "reorder":
		fs := flag.NewFlagSet("books reorder", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		chapterID := fs.String("chapter", "", "chapter id")
		position := fs.Int("position", 0, "target position in the body (0-based)")
		_ = fs.Parse(args)
		if *id == "" || *chapterID == "" {
			log.Fatal("book id and chapter id are required")
		}
		token := mustToken(tokenPath)

		endpoint := baseURL + "/books/" + url.PathEscape(*id) + "/chapters/" + url.PathEscape(*chapterID) + "/reorder"
		var resp models.Book
		if err := doJSON(ctx, client, http.MethodPost, endpoint, token, map[string]any{"position": *position}, &resp); err != nil {
			log.Fatalf("reorder failed: %v", err)
		}
		printJSON(resp)
	case "save":
		fs := flag.NewFlagSet("books save", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		message := fs.String("message", "", "edit history message")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("book id is required")
		}
		token := mustToken(tokenPath)

		endpoint := baseURL + "/books/" + url.PathEscape(*id) + "/save"
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, endpoint, token, map[string]any{"message": *message}, &resp); err != nil {
			log.Fatalf("save failed: %v", err)
		}
		printJSON(resp)
	case "delete":
		fs := flag.NewFlagSet("books delete", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("book id is required")
		}
		token := mustToken(tokenPath)

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/books/"+url.PathEscape(*id), token, nil, &resp); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: novelhub books <search|show|report|normalize|update-chapter|reorder|save|delete>")
	}
}

func handleQueue(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("queue add", flag.ExitOnError)
		bookID := fs.String("book-id", "", "book id")
		chapter := fs.Int("chapter", 0, "current chapter")
		status := fs.String("status", "pending", "status")
		_ = fs.Parse(args)
		if *bookID == "" {
			log.Fatal("book-id is required")
		}

		payload := map[string]any{
			"book_id":         *bookID,
			"current_chapter": *chapter,
			"status":          *status,
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/queue", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("queue remove", flag.ExitOnError)
		bookID := fs.String("book-id", "", "book id")
		_ = fs.Parse(args)
		if *bookID == "" {
			log.Fatal("book-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/queue/"+url.PathEscape(*bookID), token, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		fs := flag.NewFlagSet("queue list", flag.ExitOnError)
		status := fs.String("status", "", "status filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/users/queue")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *status != "" {
			qv.Set("status", *status)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: novelhub queue <add|remove|list>")
	}
}

func handleProgress(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "update":
		fs := flag.NewFlagSet("progress update", flag.ExitOnError)
		bookID := fs.String("book-id", "", "book id")
		chapter := fs.Int("chapter", 0, "last reviewed body chapter")
		_ = fs.Parse(args)
		if *bookID == "" {
			log.Fatal("book-id is required")
		}

		payload := map[string]any{
			"book_id": *bookID,
			"chapter": *chapter,
		}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/progress", token, payload, &resp); err != nil {
			log.Fatalf("update failed: %v", err)
		}
		printJSON(resp)
	case "history":
		fs := flag.NewFlagSet("progress history", flag.ExitOnError)
		bookID := fs.String("book-id", "", "book id")
		limit := fs.Int("limit", 50, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)
		if *bookID == "" {
			log.Fatal("book-id is required")
		}

		u, err := url.Parse(baseURL + "/users/progress")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("book_id", *bookID)
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), token, nil, &resp); err != nil {
			log.Fatalf("history failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: novelhub progress <update|history>")
	}
}

func handleSync(sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr, *pretty); err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: novelhub sync listen")
	}
}

func handleNotify(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws", nil)
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: novelhub notify subscribe")
	}
}

func handleChat(baseURL, sub string, args []string) {
	switch sub {
	case "join":
		fs := flag.NewFlagSet("chat join", flag.ExitOnError)
		bookID := fs.String("book-id", "", "book id of the discussion room")
		name := fs.String("name", "guest", "display name")
		_ = fs.Parse(args)
		if *bookID == "" {
			log.Fatal("book-id is required")
		}

		endpoint, err := websocketURL(baseURL, "/chat/ws", url.Values{
			"book_id": {*bookID},
			"user":    {*name},
		})
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		if err := runChat(endpoint, *name); err != nil {
			log.Fatalf("chat join failed: %v", err)
		}
	default:
		log.Fatal("usage: novelhub chat join")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/books.json", "output JSON path")
		limit := fs.Int("limit", 200, "max books to export")
		_ = fs.Parse(args)

		items, err := fetchBooks(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSON(*out, items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		log.Printf("exported %d books to %s", len(items), *out)
	case "csv":
		fs := flag.NewFlagSet("export csv", flag.ExitOnError)
		out := fs.String("out", "data/books.csv", "output CSV path")
		limit := fs.Int("limit", 200, "max books to export")
		_ = fs.Parse(args)

		items, err := fetchBooks(ctx, client, baseURL, *limit)
		if err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		if err := writeCSV(*out, items); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
		log.Printf("exported %d books to %s", len(items), *out)
	default:
		log.Fatal("usage: novelhub export <json|csv>")
	}
}

func runSyncTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[notify] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func runChat(wsURL, name string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[chat] connected as %s", name)

	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Println(string(msg))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		payload, _ := json.Marshal(map[string]string{"text": text, "user": name})
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func fetchBooks(ctx context.Context, client *http.Client, baseURL string, limit int) ([]models.BookSummary, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	var out []models.BookSummary
	offset := 0
	for len(out) < limit {
		pageSize := 50
		if remaining := limit - len(out); remaining < pageSize {
			pageSize = remaining
		}
		u, err := url.Parse(baseURL + "/books")
		if err != nil {
			return nil, err
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", pageSize))
		qv.Set("offset", fmt.Sprintf("%d", offset))
		u.RawQuery = qv.Encode()

		var resp bookListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		out = append(out, resp.Items...)
		offset += len(resp.Items)
		if offset >= resp.Total {
			break
		}
	}

	return out, nil
}

func writeJSON(path string, items []models.BookSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []models.BookSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"id", "title", "title_english", "author", "language", "work_number", "chapter_count", "passed",
	}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.ID,
			item.Title,
			item.TitleEnglish,
			item.Author,
			item.Language,
			item.WorkNumber,
			fmt.Sprintf("%d", item.ChapterCount),
			fmt.Sprintf("%t", item.Passed),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = b
	}
	return doRaw(ctx, client, method, endpoint, token, raw, out)
}

func doRaw(ctx context.Context, client *http.Client, method, endpoint, token string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = strings.NewReader(string(payload))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.novelhub-token.json"
	}
	return filepath.Join(home, ".novelhub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string, query url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	out := &url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}
	if query != nil {
		out.RawQuery = query.Encode()
	}
	return out.String(), nil
}

func printUsage() {
	fmt.Println("novelhub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  books search|show|report|normalize|update-chapter|reorder|save|delete")
	fmt.Println("  queue add|remove|list")
	fmt.Println("  progress update|history")
	fmt.Println("  sync listen")
	fmt.Println("  notify subscribe")
	fmt.Println("  chat join")
	fmt.Println("  export json|csv")
}
