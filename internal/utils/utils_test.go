package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter42")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter42" {
		t.Fatal("Hash must not equal the plaintext")
	}
	if !CheckPasswordHash("hunter42", hash) {
		t.Error("Correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Wrong password accepted")
	}
}

func TestGenerateRandomCode(t *testing.T) {
	code := GenerateRandomCode(6)
	if len(code) != 6 {
		t.Fatalf("Expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("Expected digits only, got %q", code)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("short", 50); got != "short" {
		t.Errorf("Expected short unchanged, got %q", got)
	}
	long := strings.Repeat("x", 80)
	if got := Snippet(long, 50); len(got) != 50 {
		t.Errorf("Expected 50 chars, got %d", len(got))
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := string(RenderMarkdown("**bold** <script>alert(1)</script>"))
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Expected markdown rendered, got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("Expected script stripped, got %q", html)
	}
}
