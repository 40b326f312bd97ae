package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewModels, "models"},
		{ViewMaterials, "materials"},
		{ViewIssues, "issues"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_StartsAtMenu(t *testing.T) {
	var v ViewType

	assert.Equal(t, ViewMenu, v)
}

func TestDocumentLoaded(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		doc := domain.NewDocument("DOC-1")
		msg := DocumentLoaded{Path: "a.agsi", Document: doc, Result: &domain.ValidationResult{}}

		require.NotNil(t, msg.Document)
		assert.Equal(t, "DOC-1", msg.Document.ID)
		assert.True(t, msg.Result.IsValid())
		assert.NoError(t, msg.Err)
	})

	t.Run("failure", func(t *testing.T) {
		msg := DocumentLoaded{Path: "a.agsi", Err: errors.New("boom")}

		assert.Nil(t, msg.Document)
		assert.Nil(t, msg.Result)
		assert.EqualError(t, msg.Err, "boom")
	})
}

func TestMaterialsFiltered(t *testing.T) {
	m := domain.NewMaterial("MAT1", "Clay", domain.MaterialKindSoil)
	msg := MaterialsFiltered{Filter: "cla", Materials: []*domain.Material{m}}

	assert.Equal(t, "cla", msg.Filter)
	assert.Len(t, msg.Materials, 1)
}
