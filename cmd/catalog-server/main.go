package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Hosts the catalog dump and a directory of raw documents so other
// instances can ingest from this one:
//
//	GET /catalog      catalog.json contents
//	GET /raw          list of raw *.json file names
//	GET /raw/{name}   one raw document
func main() {
	var (
		catalogPath = flag.String("catalog", "data/catalog.json", "catalog JSON dump")
		rawDir      = flag.String("raw", "data/raw", "directory of raw *.json documents")
		addr        = flag.String("addr", ":9000", "listen address")
	)
	flag.Parse()

	http.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(*catalogPath)
		if err != nil {
			http.Error(w, "cannot read catalog: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad file doesn't silently break consumers
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, "catalog invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})

	http.HandleFunc("/raw", func(w http.ResponseWriter, r *http.Request) {
		entries, err := os.ReadDir(*rawDir)
		if err != nil {
			http.Error(w, "cannot read raw dir: "+err.Error(), http.StatusInternalServerError)
			return
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(names)
	})

	http.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/raw/")
		if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
			http.Error(w, "invalid document name", http.StatusBadRequest)
			return
		}
		b, err := os.ReadFile(filepath.Join(*rawDir, name))
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})

	log.Printf("catalog-server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
