package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func uploadRequest(t *testing.T, caption string) (*httptest.ResponseRecorder, *gin.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload-image", HandleUploadImage)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "screenshot.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not-a-real-png")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.WriteField("message", caption); err != nil {
		t.Fatalf("write caption field: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/upload-image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, r
}

func TestUploadImageBroadcastsCaptionWithHostedURL(t *testing.T) {
	resetChatState(t)
	chatBridge := &stubBridge{fileURL: "https://cdn.example/hosted.png"}
	startTestRelay(t, chatBridge, nil)

	client := newTestClient(t)

	w, _ := uploadRequest(t, "check this out")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Image   string `json:"image"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Image != "https://cdn.example/hosted.png" {
		t.Fatalf("unexpected response %+v", resp)
	}

	msg := receiveEvent(t, client, "message")
	payload := msg.Data.(MessagePayload)
	if payload.Text != "check this out" || payload.Image != "https://cdn.example/hosted.png" {
		t.Fatalf("unexpected broadcast %+v", payload)
	}

	expectNoEvent(t, client)
}

func TestUploadImageBridgeFailureSuppressesBroadcast(t *testing.T) {
	resetChatState(t)
	chatBridge := &stubBridge{fileErr: fmt.Errorf("channel unavailable")}
	startTestRelay(t, chatBridge, nil)

	client := newTestClient(t)

	w, _ := uploadRequest(t, "check this out")
	if w.Code != 502 {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}

	expectNoEvent(t, client)
}

func TestUploadImageRequiresFile(t *testing.T) {
	resetChatState(t)
	startTestRelay(t, &stubBridge{}, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload-image", HandleUploadImage)

	req := httptest.NewRequest("POST", "/api/upload-image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
