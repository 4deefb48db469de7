// Command-line stress test that races concurrent note creations against the
// owner-scoped title uniqueness constraint and produces CSV + HTML reports.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"log"
	"os"
	"sync"
	"time"

	"smartnotes/client"
)

const baseURL = "http://127.0.0.1:8080"

// createResult 汇总单次并发创建的行为，方便折叠到报告内。
type createResult struct {
	Worker    int
	Title     string
	Outcome   string // "created", "conflict", "error"
	ErrKind   string
	ErrMsg    string
	Timestamp time.Time
}

// ======================= 基础功能连通性测试 =======================

// endpointSmokeTests exercises the auth and note endpoints with positive and
// negative cases before any load is applied.
func endpointSmokeTests(ctx context.Context) error {
	suffix := time.Now().UnixNano() % 1000000
	username := fmt.Sprintf("smoke-%d", suffix)
	password := "SmokePwd123!"

	c := client.New(baseURL)
	if err := c.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register (new) failed: %v", err)
	}
	// Duplicate registration should be rejected.
	if err := c.Register(ctx, username, password); err == nil {
		return errors.New("register (duplicate) unexpectedly succeeded")
	}

	if _, err := c.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login (valid) failed: %v", err)
	}
	bad := client.New(baseURL)
	if _, err := bad.Login(ctx, username, "wrong-password"); err == nil {
		return errors.New("login (invalid creds) unexpectedly succeeded")
	}

	title := fmt.Sprintf("Smoke note %d", suffix)
	note, err := c.CreateNote(ctx, title, "<p>smoke content</p>", "work")
	if err != nil {
		return fmt.Errorf("create failed: %v", err)
	}
	if _, err := c.CreateNote(ctx, title, "<p>dup</p>", ""); err == nil {
		return errors.New("duplicate create unexpectedly succeeded")
	}
	// Whitespace-only content must be rejected server-side too.
	if _, err := c.CreateNote(ctx, title+" empty", "<p>   </p>", ""); err == nil {
		return errors.New("empty-content create unexpectedly succeeded")
	}
	if _, err := c.UpdateNote(ctx, note.ID, "", "<p>smoke content v2</p>", ""); err != nil {
		return fmt.Errorf("update failed: %v", err)
	}
	if err := c.DeleteNote(ctx, note.ID); err != nil {
		return fmt.Errorf("delete failed: %v", err)
	}

	log.Println("endpoint smoke tests passed: auth and note CRUD scenarios verified")
	return nil
}

// ======================= 并发测试与报告生成 =======================

// concurrentCreateTest fires N workers at the same (owner, title) pair.
// Exactly one create should win; every other worker must see a clean
// conflict, never a second 201 and never a 5xx.
func concurrentCreateTest(ctx context.Context, workers int, outCSV, outHTML string) error {
	suffix := time.Now().UnixNano() % 1000000
	username := fmt.Sprintf("race-%d", suffix)
	password := "RacePwd123!"
	title := fmt.Sprintf("Race note %d", suffix)

	admin := client.New(baseURL)
	if err := admin.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register error: %v", err)
	}
	if _, err := admin.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login error: %v", err)
	}
	token := admin.Token()

	resCh := make(chan createResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			c := client.New(baseURL)
			c.SetToken(token)
			res := createResult{Worker: worker, Title: title, Timestamp: time.Now()}
			_, err := c.CreateNote(ctx, title, fmt.Sprintf("<p>attempt %d</p>", worker), "")
			switch {
			case err == nil:
				res.Outcome = "created"
			default:
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					res.ErrKind = string(apiErr.Kind)
					res.ErrMsg = apiErr.Message
					if apiErr.Kind == client.KindConflict {
						res.Outcome = "conflict"
					} else {
						res.Outcome = "error"
					}
				} else {
					res.Outcome = "error"
					res.ErrMsg = err.Error()
				}
			}
			resCh <- res
		}(i)
	}
	wg.Wait()
	close(resCh)

	var allResults []createResult
	created := 0
	for r := range resCh {
		if r.Outcome == "created" {
			created++
		}
		allResults = append(allResults, r)
	}
	if created != 1 {
		log.Printf("UNIQUENESS VIOLATION: %d creates succeeded for the same (owner, title)", created)
	}

	// 写 CSV 报告
	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	_ = csvWriter.Write([]string{"Worker", "Title", "Outcome", "ErrKind", "ErrMsg", "Timestamp"})
	for _, r := range allResults {
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", r.Worker), r.Title, r.Outcome, r.ErrKind, r.ErrMsg,
			r.Timestamp.Format(time.RFC3339),
		})
	}
	csvWriter.Flush()

	// 生成简单 HTML 报告
	if err := writeHTMLReport(outHTML, created, allResults); err != nil {
		log.Printf("write HTML report error: %v", err)
	}
	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, created int, results []createResult) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>Note Create Race Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
.success { color: green; }
.fail { color: red; }
</style>
</head>
<body>
<h2>Note Create Race Report ({{ .GeneratedAt }})</h2>
<p>Successful creates for one (owner, title) pair: {{ .Created }} (expected 1)</p>
<table>
<thead><tr><th>Worker</th><th>Title</th><th>Outcome</th><th>ErrKind</th><th>Error</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .Worker }}</td>
<td>{{ .Title }}</td>
<td>{{ .Outcome }}</td>
<td>{{ .ErrKind }}</td>
<td>{{ .ErrMsg }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Created     int
		Rows        []createResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Created:     created,
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	ctx := context.Background()
	workers := 10
	outCSV := "note_race_report.csv"
	outHTML := "note_race_report.html"

	if err := endpointSmokeTests(ctx); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}

	start := time.Now()
	if err := concurrentCreateTest(ctx, workers, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent test failed: %v", err)
	}
	log.Printf("concurrent test finished in %s, CSV=%s HTML=%s\n", time.Since(start), outCSV, outHTML)
	fmt.Println("All note race tests completed successfully!")
}
