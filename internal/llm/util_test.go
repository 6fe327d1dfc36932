package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_PlainJSON(t *testing.T) {
	input := `{"base_score": 70}`
	assert.Equal(t, input, CleanJSONBlock(input))
}

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	input := "```json\n{\"base_score\": 70}\n```"
	assert.Equal(t, `{"base_score": 70}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	input := "```\n{\"keywords\": []}\n```"
	assert.Equal(t, `{"keywords": []}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_FenceWithLanguageID(t *testing.T) {
	input := "```javascript\n{\"keywords\": []}\n```"
	assert.Equal(t, `{"keywords": []}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_Whitespace(t *testing.T) {
	input := "  \n```json\n  {\"a\": 1}  \n```\n  "
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}
