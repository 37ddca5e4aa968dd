package gateway

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imicap/icap"
)

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mw.Close()
	return body, mw.FormDataContentType()
}

func scanRequest(t *testing.T, handler http.Handler, filename string, content []byte) (int, Result) {
	t.Helper()
	body, contentType := multipartUpload(t, filename, content)
	req := httptest.NewRequest("POST", "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var result Result
	if err := json.NewDecoder(rr.Result().Body).Decode(&result); err != nil {
		t.Fatalf("Error: %v", err)
	}
	return rr.Result().StatusCode, result
}

func TestScanAllowed(t *testing.T) {
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		return icap.Allowed, nil
	}})

	status, result := scanRequest(t, g.Handler(), "clean.txt", []byte("hello"))
	if status != http.StatusOK {
		t.Fatalf("Status is %d", status)
	}
	if result.Status != "OK" || result.Filename != "clean.txt" || result.Cached {
		t.Fatalf("Result is %+v", result)
	}
}

func TestScanBlocked(t *testing.T) {
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		return icap.Blocked, nil
	}})

	_, result := scanRequest(t, g.Handler(), "eicar.com", []byte("virus"))
	if result.Status != "FOUND" {
		t.Fatalf("Result is %+v", result)
	}
}

func TestScanCachedOnRepeat(t *testing.T) {
	scanCount := 0
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		scanCount++
		return icap.Allowed, nil
	}})
	handler := g.Handler()

	scanRequest(t, handler, "a.txt", []byte("same content"))
	_, result := scanRequest(t, handler, "b.txt", []byte("same content"))

	if scanCount != 1 {
		t.Fatalf("Scanned %d times", scanCount)
	}
	if !result.Cached || result.Status != "OK" {
		t.Fatalf("Result is %+v", result)
	}
}

func TestScanErrorIsBadGateway(t *testing.T) {
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		return icap.Undetermined, icap.ErrUnsupportedMode
	}})

	status, result := scanRequest(t, g.Handler(), "a.txt", []byte("content"))
	if status != http.StatusBadGateway {
		t.Fatalf("Status is %d", status)
	}
	if result.Status != "ERROR" {
		t.Fatalf("Result is %+v", result)
	}
}

func TestScanErrorIsNotCached(t *testing.T) {
	scanCount := 0
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		scanCount++
		if scanCount == 1 {
			return icap.Undetermined, icap.ErrUnsupportedMode
		}
		return icap.Allowed, nil
	}})
	handler := g.Handler()

	scanRequest(t, handler, "a.txt", []byte("retry me"))
	_, result := scanRequest(t, handler, "a.txt", []byte("retry me"))

	if scanCount != 2 {
		t.Fatalf("Scanned %d times", scanCount)
	}
	if result.Status != "OK" || result.Cached {
		t.Fatalf("Result is %+v", result)
	}
}

func TestScanMissingFile(t *testing.T) {
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		t.Fatal("Scan called without an upload")
		return icap.Undetermined, nil
	}})

	req := httptest.NewRequest("POST", "/scan", nil)
	rr := httptest.NewRecorder()
	g.Handler().ServeHTTP(rr, req)
	if rr.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("Status is %d", rr.Result().StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	g := New(Config{Scan: func(p icap.Payload) (icap.Verdict, error) {
		return icap.Allowed, nil
	}})

	rr := httptest.NewRecorder()
	g.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Result().StatusCode != http.StatusOK {
		t.Fatalf("Status is %d", rr.Result().StatusCode)
	}
}
