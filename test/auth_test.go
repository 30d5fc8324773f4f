package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kanbanflow/internal/config"
)

func TestRegister(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("register_%d@example.com", time.Now().UnixNano())
	reqBody := map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "New User",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status %d but got %d", http.StatusCreated, resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding register response: %v", err)
	}
	if result["data"] == nil {
		t.Errorf("Expected data field in response")
	}

	// User baru belum terverifikasi dan punya token verifikasi
	var isVerified bool
	var token *string
	err = config.DB.QueryRow(
		"SELECT is_verified, verification_token FROM users WHERE email = $1", email,
	).Scan(&isVerified, &token)
	if err != nil {
		t.Fatalf("Error reading user row: %v", err)
	}
	if isVerified {
		t.Errorf("Expected new user to be unverified")
	}
	if token == nil || *token == "" {
		t.Errorf("Expected verification token to be set")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := CreateTestApp()
	_, _, email := RegisterTestUser(app, t)

	reqBody := map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "Copycat",
	}
	status, _ := DoJSON(app, t, "POST", "/api/v1/auth/register", "", reqBody)
	if status != http.StatusConflict {
		t.Errorf("Expected status %d but got %d", http.StatusConflict, status)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := CreateTestApp()
	_, _, email := RegisterTestUser(app, t)

	loginBody := map[string]string{
		"email":    email,
		"password": "wrongpass",
	}
	status, _ := DoJSON(app, t, "POST", "/api/v1/auth/login", "", loginBody)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status %d but got %d", http.StatusUnauthorized, status)
	}
}

func TestVerifyEmail(t *testing.T) {
	app := CreateTestApp()
	_, _, email := RegisterTestUser(app, t)

	var token string
	if err := config.DB.QueryRow(
		"SELECT verification_token FROM users WHERE email = $1", email,
	).Scan(&token); err != nil {
		t.Fatalf("Error reading verification token: %v", err)
	}

	status, _ := DoJSON(app, t, "GET", "/api/v1/auth/verify/"+token, "", nil)
	if status != http.StatusOK {
		t.Errorf("Expected status %d but got %d", http.StatusOK, status)
	}

	var isVerified bool
	if err := config.DB.QueryRow(
		"SELECT is_verified FROM users WHERE email = $1", email,
	).Scan(&isVerified); err != nil {
		t.Fatalf("Error reading user row: %v", err)
	}
	if !isVerified {
		t.Errorf("Expected user to be verified")
	}

	// Token yang sama tidak bisa dipakai dua kali
	status, _ = DoJSON(app, t, "GET", "/api/v1/auth/verify/"+token, "", nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status %d on reused token but got %d", http.StatusNotFound, status)
	}
}

func TestMe(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := RegisterTestUser(app, t)

	status, result := DoJSON(app, t, "GET", "/api/v1/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}

	data := dataMap(t, result)
	if int(data["id"].(float64)) != userID {
		t.Errorf("Expected user id %d but got %v", userID, data["id"])
	}
	if data["email"] != email {
		t.Errorf("Expected email %s but got %v", email, data["email"])
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app := CreateTestApp()

	status, _ := DoJSON(app, t, "GET", "/api/v1/projects/", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status %d but got %d", http.StatusUnauthorized, status)
	}
}
