package util

import (
	"strconv"
)

// MustParseUint 解析路由里的数字 ID，解析失败时返回 0。
// 各资源 ID 从 1 开始，0 在查询层自然落到 not found。
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
