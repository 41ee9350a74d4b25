package util

import "strings"

// 任务代码在传输层以单行转义字符串表示（\n、\t、\"、\\），
// 编辑态始终保存真实控制字符。两个转换互为精确逆运算。

// DecodeWireCode 把传输态代码还原为编辑态
func DecodeWireCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			// 未知转义序列原样保留
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EncodeWireCode 把编辑态代码转换为传输态
func EncodeWireCode(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
