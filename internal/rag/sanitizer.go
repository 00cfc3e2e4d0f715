package rag

import "strings"

// Sanitize 去除存储层无法保存的控制字符。
// 剔除 0x00-0x08、0x0B、0x0C、0x0E-0x1F，保留TAB/LF/CR与所有可打印字符。
// 纯函数，必须在任何文本进入持久化存储之前调用。
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x00 && r <= 0x08:
			return -1
		case r == 0x0B || r == 0x0C:
			return -1
		case r >= 0x0E && r <= 0x1F:
			return -1
		default:
			return r
		}
	}, text)
}
