// Seeds a running instance with demo students so the dashboard and reports
// have something to show. Usage:
//
//	go run scripts/seed_demo_data.go -base http://localhost:8080 [-token <jwt>]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

type analyzePayload struct {
	StudentID string             `json:"studentId"`
	Data      map[string]float64 `json:"data"`
}

var factorNames = []string{
	"attendance", "grades", "homework_completion", "class_participation",
	"exam_performance", "absence_streak", "failed_subjects", "mood_reports",
	"stress_indicators", "peer_isolation", "disciplinary_reports",
	"family_instability", "economic_hardship",
}

func main() {
	base := flag.String("base", "http://localhost:8080", "API base URL")
	token := flag.String("token", "", "bearer token, if auth is enabled")
	count := flag.Int("count", 25, "number of demo students")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := &http.Client{Timeout: 10 * time.Second}

	for i := 1; i <= *count; i++ {
		payload := analyzePayload{
			StudentID: fmt.Sprintf("BGE-2026-%03d", i),
			Data:      map[string]float64{},
		}
		for _, f := range factorNames {
			if rng.Float64() < 0.3 {
				continue
			}
			payload.Data[f] = rng.Float64()
		}

		body, _ := json.Marshal(payload)
		req, err := http.NewRequest(http.MethodPost, *base+"/api/risk/analyze", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "build request: %v\n", err)
			os.Exit(1)
		}
		req.Header.Set("Content-Type", "application/json")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", payload.StudentID, err)
			os.Exit(1)
		}
		resp.Body.Close()
		fmt.Printf("%s -> %d\n", payload.StudentID, resp.StatusCode)
	}
}
