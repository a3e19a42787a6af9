// Mock of the national whitelist registry for local development and e2e
// testing. Serves the same envelope as the real API for a handful of canned
// tax ids; everything else returns a null subject.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultPort = "8081"

type lookupResponse struct {
	Result lookupResult `json:"result"`
}

type lookupResult struct {
	Subject         *subject `json:"subject"`
	RequestID       string   `json:"requestId"`
	RequestDateTime string   `json:"requestDateTime"`
}

type subject struct {
	Name             string   `json:"name"`
	NIP              string   `json:"nip"`
	StatusVAT        string   `json:"statusVat"`
	REGON            *string  `json:"regon"`
	KRS              *string  `json:"krs"`
	ResidenceAddress *string  `json:"residenceAddress"`
	WorkingAddress   *string  `json:"workingAddress"`
	AccountNumbers   []string `json:"accountNumbers"`
}

func strPtr(s string) *string { return &s }

// testSubjects contains predefined entries for specific tax ids so e2e tests
// can control the mock's behavior.
var testSubjects = map[string]*subject{
	"5260250274": {
		Name:             "ABC Company Sp. z o.o.",
		NIP:              "5260250274",
		StatusVAT:        "Czynny",
		REGON:            strPtr("012345678"),
		KRS:              strPtr("0000012345"),
		ResidenceAddress: strPtr("ul. Testowa 1, 00-001 Warszawa"),
		WorkingAddress:   strPtr("ul. Testowa 1, 00-001 Warszawa"),
		AccountNumbers: []string{
			"61109010140000071219812874",
			"83101010230000261395100000",
		},
	},
	"1111111111": {
		Name:           "No Accounts S.A.",
		NIP:            "1111111111",
		StatusVAT:      "Zwolniony",
		AccountNumbers: []string{},
	},
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	http.HandleFunc("/api/search/nip/", handleLookup)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": "wl-registry"})
	})

	log.Printf("mock whitelist registry listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleLookup(w http.ResponseWriter, r *http.Request) {
	nip := strings.TrimPrefix(r.URL.Path, "/api/search/nip/")
	if nip == "" {
		http.Error(w, `{"error":"missing nip"}`, http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("date") == "" {
		http.Error(w, `{"error":"missing date"}`, http.StatusBadRequest)
		return
	}

	resp := lookupResponse{
		Result: lookupResult{
			Subject:         testSubjects[nip],
			RequestID:       fmt.Sprintf("mock-%d", time.Now().UnixNano()),
			RequestDateTime: time.Now().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
