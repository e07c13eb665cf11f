package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterFromTemplate(t *testing.T) {
	hero, err := CharacterFromTemplate("hero", "")

	require.NoError(t, err)
	assert.Equal(t, "Hero", hero.Name)
	assert.Equal(t, "English_magnetic_voiced_man", hero.VoiceID)
	assert.Equal(t, "brave", hero.Emotion)
	assert.InDelta(t, 1.0, hero.Speed, 1e-9)
}

func TestCharacterFromTemplateCustomName(t *testing.T) {
	wizard, err := CharacterFromTemplate("wizard", "merlin the grey")

	require.NoError(t, err)
	assert.Equal(t, "Merlin The Grey", wizard.Name)
	assert.Equal(t, "English_WiseScholar", wizard.VoiceID)
}

func TestCharacterFromTemplateUnknown(t *testing.T) {
	_, err := CharacterFromTemplate("antihero", "")
	assert.Error(t, err)
}

func TestGenreInfo(t *testing.T) {
	fantasy, err := GenreInfo("fantasy")

	require.NoError(t, err)
	assert.Contains(t, fantasy.CommonCharacters, "wizard")
	assert.NotEmpty(t, fantasy.Themes)

	_, err = GenreInfo("western")
	assert.Error(t, err)
}

func TestAvailableListsAreSorted(t *testing.T) {
	templates := AvailableTemplates()
	require.NotEmpty(t, templates)
	assert.IsIncreasing(t, templates)
	assert.Contains(t, templates, "narrator")

	genres := AvailableGenres()
	require.NotEmpty(t, genres)
	assert.IsIncreasing(t, genres)
}

func TestTemplateVillainProfile(t *testing.T) {
	villain, err := CharacterFromTemplate("villain", "")

	require.NoError(t, err)
	assert.Equal(t, "English_ManWithDeepVoice", villain.VoiceID)
	assert.InDelta(t, 0.8, villain.Speed, 1e-9)
	assert.InDelta(t, -0.3, villain.Pitch, 1e-9)
	assert.Equal(t, "sinister", villain.Emotion)
}
