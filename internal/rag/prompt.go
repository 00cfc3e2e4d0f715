package rag

import (
	"fmt"
	"strings"
)

// BuildPrompt 拼装带依据的提问prompt。
// 检索到的片段按最近邻顺序拼接；没有片段时依据块为空，
// 模型据此回答自己没有相关信息，这不是错误路径。
func BuildPrompt(chunks []string, question string) string {
	context := strings.Join(chunks, "\n")
	return fmt.Sprintf(
		"You are a contract-savvy assistant. Use ONLY the following excerpts to answer:\n%s\n\nQuestion: %s",
		context, question,
	)
}
