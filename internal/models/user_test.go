package models_test

import (
	"testing"

	"tgfilebot/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestEffectiveLanguage_PrefersSelection verifies that an explicit
// language choice wins over the client locale.
func TestEffectiveLanguage_PrefersSelection(t *testing.T) {
	// Arrange
	selected := "uz"
	user := &models.User{StockLanguage: "ru", SelectedLanguage: &selected}

	// Act & Assert
	assert.Equal(t, "uz", user.EffectiveLanguage())
}

// TestEffectiveLanguage_FallsBackToStock verifies the client locale is
// used until the user picks a language.
func TestEffectiveLanguage_FallsBackToStock(t *testing.T) {
	user := &models.User{StockLanguage: "tr"}
	assert.Equal(t, "tr", user.EffectiveLanguage())

	// An empty selection behaves like no selection at all.
	empty := ""
	user.SelectedLanguage = &empty
	assert.Equal(t, "tr", user.EffectiveLanguage())
}

// TestFullName_TrimsMissingParts covers users without a last name.
func TestFullName_TrimsMissingParts(t *testing.T) {
	assert.Equal(t, "Alisher Usmanov", (&models.User{FirstName: "Alisher", LastName: "Usmanov"}).FullName())
	assert.Equal(t, "Alisher", (&models.User{FirstName: "Alisher"}).FullName())
	assert.Equal(t, "", (&models.User{}).FullName())
}
