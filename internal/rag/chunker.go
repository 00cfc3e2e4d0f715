package rag

// Chunker 文本分块器，按固定窗口+重叠切分
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker 创建分块器
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 5000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: overlap,
	}
}

// Split 将文本切分为重叠的定长片段。
// 相邻片段共享 overlap 个字符（最后一对可能不足）；片段边界不关心句子结构，
// 顺序只决定每个片段覆盖的原文邻域，对检索无意义。空输入返回nil。
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = c.chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))

		if end == len(runes) {
			break
		}
	}

	return chunks
}
