package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSerial 生成 32 位十六进制证书编号（128 bit 随机熵，定宽）。
func GenerateSerial() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
