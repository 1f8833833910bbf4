package room

import (
	"regexp"
	"strings"
)

// 房间码字母表：大写字母加数字，共36个字符
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// NormalizeCode 房间码归一化：去空白并转大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCodeFormat 校验归一化后的房间码格式
func ValidCodeFormat(code string) bool {
	return codePattern.MatchString(code)
}

// generateCode 生成未被占用的房间码
// 调用方必须持有 m.mu
func (m *Manager) generateCode() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[m.rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}
