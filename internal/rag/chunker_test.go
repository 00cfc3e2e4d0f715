package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplit(t *testing.T) {
	t.Run("empty text returns nil", func(t *testing.T) {
		c := NewChunker(10, 2)
		assert.Nil(t, c.Split(""))
	})

	t.Run("short text yields single chunk", func(t *testing.T) {
		c := NewChunker(10, 2)
		chunks := c.Split("hello")
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello", chunks[0])
	})

	t.Run("text exactly chunk size yields single chunk", func(t *testing.T) {
		c := NewChunker(10, 2)
		chunks := c.Split("0123456789")
		require.Len(t, chunks, 1)
		assert.Equal(t, "0123456789", chunks[0])
	})

	t.Run("adjacent chunks share overlap", func(t *testing.T) {
		c := NewChunker(10, 3)
		text := "abcdefghijklmnopqrstuvwxyz"
		chunks := c.Split(text)
		require.True(t, len(chunks) > 1)

		for i := 0; i < len(chunks)-1; i++ {
			tail := chunks[i][len(chunks[i])-3:]
			assert.True(t, strings.HasPrefix(chunks[i+1], tail),
				"chunk %d should start with the last 3 chars of chunk %d", i+1, i)
		}
	})

	t.Run("chunks cover the full text", func(t *testing.T) {
		c := NewChunker(10, 3)
		text := "abcdefghijklmnopqrstuvwxyz0123456789"
		chunks := c.Split(text)
		require.NotEmpty(t, chunks)

		// 按步长重建原文
		step := 10 - 3
		var rebuilt strings.Builder
		for i, chunk := range chunks {
			if i == len(chunks)-1 {
				rebuilt.WriteString(chunk)
			} else {
				rebuilt.WriteString(chunk[:step])
			}
		}
		assert.Equal(t, text, rebuilt.String())
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		c := NewChunker(4, 1)
		text := "合同条款约定双方权利义务"
		chunks := c.Split(text)
		for _, chunk := range chunks {
			assert.True(t, len([]rune(chunk)) <= 4)
			assert.Equal(t, chunk, string([]rune(chunk)))
		}
	})

	t.Run("overlap larger than size falls back to quarter", func(t *testing.T) {
		c := NewChunker(8, 100)
		assert.Equal(t, 2, c.chunkOverlap)
		chunks := c.Split("abcdefghijklmnop")
		assert.NotEmpty(t, chunks)
	})

	t.Run("defaults applied for invalid size", func(t *testing.T) {
		c := NewChunker(0, -1)
		assert.Equal(t, 5000, c.chunkSize)
		assert.Equal(t, 0, c.chunkOverlap)
	})
}
