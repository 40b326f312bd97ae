package mcp

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractCatalogID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid catalog URI", "agsi://catalog/DOC-0001", "DOC-0001"},
		{"invalid prefix", "file://catalog/DOC-0001", ""},
		{"listing URI", "agsi://catalog", ""},
		{"nested path", "agsi://catalog/DOC-0001/models", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCatalogID(tt.uri))
		})
	}
}

func TestServer_handleSchemaResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	t.Run("compact schema is JSON", func(t *testing.T) {
		result, err := server.handleSchemaResource(ctx, readRequest("agsi://schema/compact"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.True(t, json.Valid([]byte(result.Contents[0].Text)))
	})

	t.Run("wire schema is proto text", func(t *testing.T) {
		result, err := server.handleSchemaResource(ctx, readRequest("agsi://schema/wire"))
		require.NoError(t, err)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `syntax = "proto3";`)
	})

	t.Run("text has no schema", func(t *testing.T) {
		_, err := server.handleSchemaResource(ctx, readRequest("agsi://schema/text"))
		assert.Error(t, err)
	})
}

func TestServer_handleCatalogResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	result, err := server.handleCatalogResource(ctx, readRequest(catalogURI))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "DOC-0001", rows[0]["id"])
	assert.Equal(t, "agsi://catalog/DOC-0001", rows[0]["uri"])
	assert.Equal(t, "1.0.1", rows[0]["schema_version"])
	assert.Equal(t, "abc123", rows[0]["checksum"])
}

func TestServer_handleCatalogResource_Error(t *testing.T) {
	ports := testPorts()
	ports.Catalog = &mockCatalogService{err: errors.New("disk gone")}
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, err = server.handleCatalogResource(context.Background(), readRequest(catalogURI))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestServer_handleCatalogDocumentResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)

	t.Run("stored document", func(t *testing.T) {
		result, err := server.handleCatalogDocumentResource(ctx, readRequest("agsi://catalog/DOC-0001"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)

		doc, err := serialization.Decode([]byte(result.Contents[0].Text), serialization.Text)
		require.NoError(t, err)
		assert.Equal(t, "DOC-0001", doc.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := server.handleCatalogDocumentResource(ctx, readRequest("agsi://catalog/DOC-404"))
		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleCatalogDocumentResource(ctx, readRequest("agsi://catalog/"))
		assert.Error(t, err)
	})
}

func TestRegisterResources_Optional(t *testing.T) {
	ports := testPorts()
	ports.Catalog = nil
	ports.Schema = nil

	server, err := NewServer(ports)
	require.NoError(t, err)
	assert.NotNil(t, server)
}
