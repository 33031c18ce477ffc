package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		authClass bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed"},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required", authClass: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied", authClass: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
		{code: CodeNetwork, publicMsg: "connection failed", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "backend unavailable", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.AuthClass != tt.authClass {
			t.Fatalf("code %s expected auth class %v got %v", tt.code, tt.authClass, meta.AuthClass)
		}
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		code   Code
	}{
		{http.StatusBadRequest, CodeValidation},
		{http.StatusUnprocessableEntity, CodeValidation},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeConflict},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusBadGateway, CodeDependency},
		{http.StatusTeapot, CodeInternal},
	}
	for _, tt := range tests {
		if got := FromStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestFromResponse(t *testing.T) {
	err := FromResponse(http.StatusConflict, "item already in cart")
	if err.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Message() != "item already in cart" {
		t.Fatalf("expected backend message to win, got %q", err.Message())
	}
	if err.HTTPStatus() != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", err.HTTPStatus())
	}

	blank := FromResponse(http.StatusUnauthorized, "")
	if blank.Message() != "authentication required" {
		t.Fatalf("expected public message fallback, got %q", blank.Message())
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing email")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing email" {
		t.Fatalf("unexpected message %q", base.Message())
	}

	detail := map[string]any{"field": "email"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeNetwork, cause, "dial backend")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeNetwork {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAuthAndFallbackClassification(t *testing.T) {
	if !IsAuthClass(New(CodeUnauthorized, "")) {
		t.Fatal("401 should be auth class")
	}
	if !IsAuthClass(New(CodeForbidden, "")) {
		t.Fatal("403 should be auth class")
	}
	if IsAuthClass(New(CodeConflict, "")) {
		t.Fatal("409 is not auth class")
	}

	for _, code := range []Code{CodeUnauthorized, CodeForbidden, CodeConflict} {
		if !IsCartFallback(New(code, "")) {
			t.Fatalf("%s should trigger the cart fallback", code)
		}
	}
	if IsCartFallback(New(CodeNotFound, "")) {
		t.Fatal("404 should not trigger the cart fallback")
	}
	if IsCartFallback(stdErrors.New("plain")) {
		t.Fatal("untyped errors should not trigger the cart fallback")
	}
}

func TestDumpChain(t *testing.T) {
	cause := stdErrors.New("socket closed")
	err := Wrap(CodeNetwork, cause, "fetch cart")

	d := Dump(err)
	if d.Code != CodeNetwork {
		t.Fatalf("unexpected dump code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2-link chain, got %d", len(d.Chain))
	}
}
