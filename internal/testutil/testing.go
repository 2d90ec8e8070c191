package testutil

import (
	"strings"
	"testing"
	"testing/fstest"
)

// StaticTestCase represents a test case for serving generated files
type StaticTestCase struct {
	Name                string
	Path                string
	ExpectedStatus      int
	ExpectedBodyContent string
	ExpectedContentType string
	ExpectCacheControl  bool
}

// GeneratedFS returns a small tree shaped like a generation run's output
func GeneratedFS() fstest.MapFS {
	return fstest.MapFS{
		"client.ts":            {Data: []byte("export const client = hc<AppType>(baseURL)\n")},
		"routes.ts":            {Data: []byte("export type Schema = {}\n")},
		"rpc/index.ts":         {Data: []byte("export async function getPetPetId() {}\n")},
		"react-query/index.ts": {Data: []byte("export function useGetPetPetId() {}\n")},
		"manifest.json":        {Data: []byte(`{"generatedBy": "fluxgen"}`)},
	}
}

// SampleSpec is served at /openapi.json by preview tests
var SampleSpec = []byte(`{"openapi": "3.0.3", "info": {"title": "Preview", "version": "1.0.0"}, "paths": {}}`)

// GetBasicFileServingTests returns common test cases for file serving
func GetBasicFileServingTests() []StaticTestCase {
	return []StaticTestCase{
		{
			Name:                "list generated files",
			Path:                "/",
			ExpectedStatus:      200,
			ExpectedBodyContent: "rpc/index.ts",
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve client module",
			Path:                "/client.ts",
			ExpectedStatus:      200,
			ExpectedBodyContent: "hc<AppType>",
			ExpectedContentType: "text/typescript",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve nested binding module",
			Path:                "/react-query/index.ts",
			ExpectedStatus:      200,
			ExpectedBodyContent: "useGetPetPetId",
			ExpectedContentType: "text/typescript",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve manifest",
			Path:                "/manifest.json",
			ExpectedStatus:      200,
			ExpectedBodyContent: "fluxgen",
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
		{
			Name:                "serve OpenAPI document",
			Path:                "/openapi.json",
			ExpectedStatus:      200,
			ExpectedBodyContent: "\"openapi\": \"3.0.3\"",
			ExpectedContentType: "application/json",
			ExpectCacheControl:  true,
		},
	}
}

// ValidateStaticResponse validates common aspects of served responses
func ValidateStaticResponse(t *testing.T, testCase StaticTestCase, statusCode int, contentType, cacheControl, body string) {
	t.Helper()

	// Test status code
	if statusCode != testCase.ExpectedStatus {
		t.Errorf("Expected status %d, got %d", testCase.ExpectedStatus, statusCode)
	} else {
		t.Logf("✅ Status code: %d", statusCode)
	}

	// Test Content-Type header
	if !strings.Contains(contentType, testCase.ExpectedContentType) {
		t.Errorf("Expected Content-Type to contain '%s', got '%s'", testCase.ExpectedContentType, contentType)
	} else {
		t.Logf("✅ Content-Type: %s", contentType)
	}

	// Test Cache-Control header
	if testCase.ExpectCacheControl {
		if cacheControl == "" {
			t.Errorf("Expected Cache-Control header to be set, got empty")
		} else {
			t.Logf("✅ Cache-Control: %s", cacheControl)
		}
	}

	// Test response body
	if !strings.Contains(body, testCase.ExpectedBodyContent) {
		t.Errorf("Expected body to contain '%s', got '%s'", testCase.ExpectedBodyContent, body)
	} else {
		t.Logf("✅ Body contains expected content")
	}
}

// GetMissingPaths returns paths no generated tree contains
func GetMissingPaths() []string {
	return []string{"/missing.ts", "/rpc/missing.ts", "/../etc/passwd"}
}
