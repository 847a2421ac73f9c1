package auto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

type mockExtractor struct{ name string }

func (m *mockExtractor) Extract(_ context.Context, _ []byte) (*driven.ExtractResult, error) {
	return &driven.ExtractResult{Text: m.name}, nil
}

func (m *mockExtractor) Name() string { return m.name }

func TestExtract_Dispatch(t *testing.T) {
	e := New(&mockExtractor{"pdf"}, &mockExtractor{"docx"}, &mockExtractor{"plaintext"})

	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte("%PDF-1.7 ..."), "pdf"},
		{[]byte("PK\x03\x04rest"), "docx"},
		{[]byte("Artículo 1"), "plaintext"},
		{nil, "plaintext"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res, err := e.Extract(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestExtract_MissingTarget(t *testing.T) {
	e := New(nil, nil, nil)
	_, err := e.Extract(context.Background(), []byte("%PDF-"))
	assert.Error(t, err)
}
