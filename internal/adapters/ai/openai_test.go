package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIModel_RejectsEmptyAPIKey(t *testing.T) {
	_, err := NewOpenAIModel("", "", 0)
	assert.Error(t, err)
}

func TestNewOpenAIModel_DefaultsModelAndTimeout(t *testing.T) {
	m, err := NewOpenAIModel("test-key", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, m.timeout)
	assert.NotEmpty(t, m.model)
}

func TestNewOpenAIModel_HonorsExplicitModelAndTimeout(t *testing.T) {
	m, err := NewOpenAIModel("test-key", "gpt-4o", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, m.timeout)
	assert.Equal(t, "gpt-4o", string(m.model))
}
