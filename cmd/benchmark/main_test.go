package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResults(t *testing.T) {
	// Arrange
	results := []runResult{
		{Catalog: "1.json", Seed: 0, Score: 12.5, Violations: 0, Generations: 200, Milliseconds: 150},
		{Catalog: "1.json", Seed: 1, Score: -999987.5, Violations: 1, Generations: 200, Milliseconds: 148},
	}
	var buffer bytes.Buffer

	// Act
	err := writeResults(&buffer, results)

	// Assert
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "catalog,seed,score,violations,generations,milliseconds", lines[0])
	assert.Equal(t, "1.json,0,12.500000,0,200,150", lines[1])
	assert.Equal(t, "1.json,1,-999987.500000,1,200,148", lines[2])
}
